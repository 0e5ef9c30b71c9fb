package cmd

import (
	"plugin"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tahsinrahman/tuple-shuffle/internal"
	"github.com/tahsinrahman/tuple-shuffle/internal/shuffle"
	"github.com/tahsinrahman/tuple-shuffle/internal/tuple"
)

var (
	serverAddr         string
	workerReduceTasks  int
	outputFilePrefix   string
	intermediateDir    string
	pluginPath         string
	jobConfigPath      string
	compress           bool
	partitionerIndices string
	sortIndices        string
	groupIndices       string
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:  "worker",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mapFunc, reduceFunc, configure, err := loadPlugin(pluginPath)
		if err != nil {
			log.Err(err).Msg("failed to load plugins")
			return err
		}

		var cfg *JobConfig
		if jobConfigPath != "" {
			if cfg, err = JobConfigFromFile(jobConfigPath); err != nil {
				log.Err(err).Msg("failed to load job config")
				return err
			}
		}

		props, err := jobProperties(configure, cfg, shuffle.Properties{
			shuffle.PartitionerIndicesConfigName: partitionerIndices,
			shuffle.SortIndicesConfigName:        sortIndices,
			shuffle.GroupIndicesConfigName:       groupIndices,
		})
		if err != nil {
			log.Err(err).Msg("failed to configure job")
			return err
		}
		plan, err := shuffle.NewPlan(props)
		if err != nil {
			log.Err(err).Msg("failed to build shuffle plan")
			return err
		}

		reduceTasks, compressIntermediate := workerReduceTasks, compress
		if cfg != nil {
			if cfg.ReduceTasks != nil && !cmd.Flags().Changed("reduce-tasks") {
				reduceTasks = *cfg.ReduceTasks
			}
			if cfg.CompressIntermediate != nil && !cmd.Flags().Changed("compress") {
				compressIntermediate = *cfg.CompressIntermediate
			}
		}

		w, err := internal.NewWorker(internal.NewWorkerConfig{
			ServerAddress:        serverAddr,
			ReduceWorkers:        reduceTasks,
			OutputFilePrefix:     outputFilePrefix,
			IntermediateDir:      intermediateDir,
			CompressIntermediate: compressIntermediate,
			Plan:                 plan,
			MapFunc:              mapFunc,
			ReduceFunc:           reduceFunc,
		})
		if err != nil {
			return err
		}

		return w.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().StringVar(&serverAddr, "server-address", "127.0.0.1:8080", "coordinator server address")
	workerCmd.Flags().IntVar(&workerReduceTasks, "reduce-tasks", 10, "total number of reduce tasks")
	workerCmd.Flags().StringVar(&pluginPath, "plugin-path", "", "path to plugin file")
	workerCmd.Flags().StringVar(&outputFilePrefix, "output-prefix", "", "prefix for output files")
	workerCmd.Flags().StringVar(&intermediateDir, "intermediate-dir", "", "directory for intermediate files, defaults to the temp dir")
	workerCmd.Flags().StringVar(&jobConfigPath, "config", "", "path to a yaml job config")
	workerCmd.Flags().BoolVar(&compress, "compress", false, "snappy-compress intermediate files")
	workerCmd.Flags().StringVar(&partitionerIndices, "partition-indices", "", "comma separated key fields to partition on")
	workerCmd.Flags().StringVar(&sortIndices, "sort-indices", "", "comma separated key fields to sort on, in order")
	workerCmd.Flags().StringVar(&groupIndices, "group-indices", "", "comma separated key fields to group on")

	_ = workerCmd.MarkFlagRequired("plugin-path")
	_ = workerCmd.MarkFlagRequired("output-prefix")
}

// load the application Map and Reduce functions, and the optional Configure
// hook, from a plugin file
func loadPlugin(filename string) (internal.MapFunc, internal.ReduceFunc, func(*shuffle.ConfigBuilder), error) {
	p, err := plugin.Open(filename)
	if err != nil {
		return nil, nil, nil, err
	}

	xmapf, err := p.Lookup("Map")
	if err != nil {
		log.Err(err).Msg("failed to find Map")
		return nil, nil, nil, err
	}
	mapFunc, ok := xmapf.(func(string, string) []internal.KeyValue)
	if !ok {
		return nil, nil, nil, errors.Errorf("Map in %s has type %T", filename, xmapf)
	}

	xreducef, err := p.Lookup("Reduce")
	if err != nil {
		log.Err(err).Msg("failed to find Reduce")
		return nil, nil, nil, err
	}
	reduceFunc, ok := xreducef.(func(*tuple.Tuple, []string) string)
	if !ok {
		return nil, nil, nil, errors.Errorf("Reduce in %s has type %T", filename, xreducef)
	}

	var configure func(*shuffle.ConfigBuilder)
	if xconf, err := p.Lookup("Configure"); err == nil {
		if configure, ok = xconf.(func(*shuffle.ConfigBuilder)); !ok {
			return nil, nil, nil, errors.Errorf("Configure in %s has type %T", filename, xconf)
		}
	}

	return mapFunc, reduceFunc, configure, nil
}
