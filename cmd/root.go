package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/customsim/internal/models"
	"github.com/chrisdamba/customsim/internal/simulator"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "customsim",
	Short: "Simulates travelers clearing customs at an airport",
	Long: `customsim lines up randomly generated groups of travelers in front of a fixed
number of customs agents, serves every line to completion and reports the payroll
cost of the shift together with the average and maximum wait time.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		if err := configureLogging(cfg.LogLevel); err != nil {
			return err
		}

		sim, err := simulator.NewSimulator(cfg)
		if err != nil {
			return err
		}

		report, err := sim.Run(cmd.Context())
		if err != nil {
			return err
		}

		return simulator.WriteReport(cmd.OutOrStdout(), report)
	},
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"agents":             "num_agents",
	"groups":             "num_groups",
	"seed":               "seed",
	"start-time":         "start_time",
	"log-level":          "log_level",
	"progress":           "progress",
	"batch-size":         "batch_size",
	"output-format":      "output_format",
	"output-path":        "output_path",
	"output-folder":      "output_folder",
	"output-destination": "output_destination",
	"s3-bucket":          "cloud_storage.bucket_name",
	"s3-region":          "cloud_storage.region",
	"kafka-enabled":      "kafka_enabled",
	"kafka-broker-list":  "kafka_broker_list",
	"kafka-topic-prefix": "kafka_topic_prefix",
	"postgres-enabled":   "postgres_enabled",
	"postgres-dsn":       "postgres_dsn",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.customsim.yaml)")

	flags := rootCmd.Flags()
	flags.Int("agents", models.DefaultNumAgents, "Number of customs agents")
	flags.Int("groups", models.DefaultNumGroups, "Number of traveler groups")
	flags.Int64("seed", 0, "Random seed for the simulation (0 uses the clock)")
	flags.String("start-time", "2024-01-01T08:00:00Z", "Simulated start of the shift (RFC3339)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.Bool("progress", false, "Show a progress bar while publishing events")
	flags.Int("batch-size", 100, "Number of service records published per batch")
	flags.String("output-format", models.OutputFormatNone, "Event output format (none, console, json, csv, parquet)")
	flags.String("output-path", "output", "Base directory for file outputs")
	flags.String("output-folder", "customsim", "Folder under the output path")
	flags.String("output-destination", models.OutputDestinationLocal, "Where parquet files go (local, s3)")
	flags.String("s3-bucket", "", "S3 bucket for parquet output")
	flags.String("s3-region", "us-east-1", "S3 region")
	flags.Bool("kafka-enabled", false, "Publish events to Kafka")
	flags.String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	flags.String("kafka-topic-prefix", "", "Prefix added to every Kafka topic")
	flags.Bool("postgres-enabled", false, "Store events in PostgreSQL")
	flags.String("postgres-dsn", "", "PostgreSQL connection string")

	flags.VisitAll(func(flag *pflag.Flag) {
		if key, ok := flagKeys[flag.Name]; ok {
			cobra.CheckErr(viper.BindPFlag(key, flag))
		}
	})
}

func configureLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(lvl)
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
