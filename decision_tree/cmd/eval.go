package cmd

import (
	"path/filepath"

	"github.com/LinkinStars/golang-util/gu"
	"github.com/spf13/cobra"

	"rds-igsplit/decision_tree/report"
	"rds-igsplit/rock-share/base/config"
)

func newEvalCmd(opts *options) *cobra.Command {
	var attrs, format, dotDir string
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "print the best split of every selected attribute",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = config.All.Split.OutputFormat
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			d, err := opts.loadData()
			if err != nil {
				return err
			}
			selected, err := report.ParseAttrs(d.Dataset(), attrs)
			if err != nil {
				return err
			}
			splits, err := report.Evaluate(cmd.Context(), d, opts.evaluator(), selected, opts.workers)
			if err != nil {
				return err
			}
			if err = report.Encode(cmd.OutOrStdout(), f, d.Dataset(), splits); err != nil {
				return err
			}

			if len(dotDir) == 0 {
				return nil
			}
			if err = gu.CreateDirIfNotExist(dotDir); err != nil {
				return err
			}
			for _, split := range splits {
				a, err := d.Dataset().Attribute(split.Attr)
				if err != nil {
					return err
				}
				if err = report.WriteStumpDot(filepath.Join(dotDir, a.Name+".dot"), d, split); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&attrs, "attrs", "", "comma separated attribute indexes or names, all attributes if empty")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json or yaml")
	cmd.Flags().StringVar(&dotDir, "dot", "", "directory to write one graphviz stump per attribute")
	return cmd
}
