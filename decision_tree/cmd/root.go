package cmd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/decision_tree/ml/tree"
	"rds-igsplit/rock-share/base/config"
	"rds-igsplit/rock-share/base/logger"
	"rds-igsplit/utils"
)

const ProjectName = "rds-igsplit"

// options 命令行参数，没有设置的项取配置文件中的值
type options struct {
	configFile  string
	data        string
	labels      string
	descriptor  string
	categorical string
	workers     int
	reference   bool
}

func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "igsplit",
		Short:        "information gain split evaluator",
		Long:         "evaluate the best information gain split of each attribute of a labeled dataset",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitConfig(opts.configFile); err != nil {
				return err
			}
			if err := logger.InitLogger(config.All.LoggerOptions(ProjectName)); err != nil {
				return err
			}
			opts.fillFromConfig(cmd, config.All.Split)
			logger.Debugf("config: %s", config.All)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default ./config/config.yml)")
	flags.StringVar(&opts.data, "data", "", "csv file, or npy feature matrix")
	flags.StringVar(&opts.labels, "labels", "", "npy label vector, only for npy data")
	flags.StringVar(&opts.descriptor, "descriptor", "", `column descriptor of the csv file, e.g. "N 3 C I L"`)
	flags.StringVar(&opts.categorical, "categorical", "", "comma separated categorical columns, only for npy data")
	flags.IntVar(&opts.workers, "workers", 0, "number of attributes evaluated in parallel")
	flags.BoolVar(&opts.reference, "reference", false, "use the non incremental evaluator")

	root.AddCommand(newEvalCmd(opts), newServeCmd(opts))
	return root
}

func Execute() error {
	defer logger.Sync()
	return NewRootCmd().Execute()
}

func (opts *options) fillFromConfig(cmd *cobra.Command, c config.SplitConfig) {
	flags := cmd.Flags()
	if !flags.Changed("data") {
		opts.data = c.Data
	}
	if !flags.Changed("labels") {
		opts.labels = c.Labels
	}
	if !flags.Changed("descriptor") {
		opts.descriptor = c.Descriptor
	}
	if !flags.Changed("workers") {
		opts.workers = c.CoWorkerNum
	}
}

func (opts *options) evaluator() tree.IgSplit {
	if opts.reference {
		return tree.DefaultIgSplit{}
	}
	return tree.OptIgSplit{}
}

// loadData 按后缀区分csv和npy
func (opts *options) loadData() (*data.Data, error) {
	if len(opts.data) == 0 {
		return nil, errors.Wrap(utils.ErrInvalidArgument, "no data file, set --data or split_config.data")
	}
	if strings.HasSuffix(strings.ToLower(opts.data), ".npy") {
		if len(opts.labels) == 0 {
			return nil, errors.Wrap(utils.ErrInvalidArgument, "npy data needs --labels")
		}
		categorical, err := parseCategorical(opts.categorical)
		if err != nil {
			return nil, err
		}
		return data.LoadNpy(opts.data, opts.labels, categorical)
	}

	desc, err := data.ParseDescriptor(opts.descriptor)
	if err != nil {
		return nil, err
	}
	return data.LoadCsv(opts.data, desc)
}

func parseCategorical(s string) ([]bool, error) {
	categorical := make([]bool, 0)
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		col, err := strconv.Atoi(token)
		if err != nil || col < 0 {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "bad categorical column %q", token)
		}
		for len(categorical) <= col {
			categorical = append(categorical, false)
		}
		categorical[col] = true
	}
	return categorical, nil
}
