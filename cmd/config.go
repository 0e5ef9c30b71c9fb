package cmd

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/tahsinrahman/tuple-shuffle/internal/shuffle"
)

// JobConfig is the optional YAML file a worker reads its job settings from.
//
//	reduce_tasks: 10
//	compress_intermediate: true
//	properties:
//	  tuple.partitioner.indices: "0"
//	  tuple.sort.indices: "0,1"
//	  tuple.group.indices: "0"
type JobConfig struct {
	ReduceTasks          *int              `yaml:"reduce_tasks,omitempty"`
	CompressIntermediate *bool             `yaml:"compress_intermediate,omitempty"`
	Properties           map[string]string `yaml:"properties,omitempty"`
}

func NewJobConfig(data []byte) (*JobConfig, error) {
	var cfg JobConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func JobConfigFromFile(path string) (*JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read job config '%s'", path)
	}
	cfg, err := NewJobConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse job config '%s'", path)
	}
	return cfg, nil
}

// jobProperties layers the shuffle properties of a job: what the plugin's
// Configure hook sets, then the job file, then explicit command line flags.
func jobProperties(configure func(*shuffle.ConfigBuilder), cfg *JobConfig, flags shuffle.Properties) (shuffle.Properties, error) {
	props := shuffle.Properties{}
	if configure != nil {
		b := shuffle.NewConfigBuilder()
		configure(b)
		if err := b.Configure(props); err != nil {
			return nil, err
		}
	}
	if cfg != nil {
		props.Merge(cfg.Properties)
	}
	return props.Merge(flags), nil
}
