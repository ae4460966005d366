package main

import (
	urfave "github.com/urfave/cli/v2"
)

var configCmd = &urfave.Command{
	Name:   "config",
	Usage:  "Print the effective configuration as YAML",
	Action: cmdConfig,
}

func cmdConfig(c *urfave.Context) error {
	b, err := getConfig(c).Config.Marshal()
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(b)
	return err
}
