package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"rds-igsplit/decision_tree/service"
	"rds-igsplit/rock-share/base/config"
)

func newServeCmd(opts *options) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "load the dataset once and serve splits over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = config.All.Server.HttpPort
			}
			d, err := opts.loadData()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			return service.NewServer(d, opts.evaluator(), opts.workers, reg).Run(":" + port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "http port (default server_config.http_port)")
	return cmd
}
