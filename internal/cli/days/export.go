package days

import (
	"context"

	"github.com/julianstephens/daydicated/internal/cli"
	"github.com/julianstephens/daydicated/internal/export"
)

type ExportCmd struct {
	Format string `help:"Export format: csv, json or ics." enum:"csv,json,ics" default:"csv"`
	Out    string `help:"Directory to write the export into." type:"path" default:"."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	ctx.Config.ExportDir = c.Out
	path, err := ctx.NewController().Export(context.Background(), format)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Exported all entries to %s\n", path)
	return nil
}
