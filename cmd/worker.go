// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// workerCmd represents the worker command.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "The worker subcommand",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logHostInfo(logger)

		logger.Debug(
			"worker configuration",
			slog.String("config_file", viper.ConfigFileUsed()),
			slog.Bool("debug", appConfig.Debug),
			slog.String("worker.nats.host", appConfig.Worker.NATS.Host),
			slog.Int("worker.nats.port", appConfig.Worker.NATS.Port),
			slog.String("worker.nats.client_name", appConfig.Worker.NATS.ClientName),
			slog.Int("worker.max_in_flight", appConfig.Worker.MaxInFlight),
		)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)

	// Consumer configuration flags
	workerCmd.PersistentFlags().
		IntP("consumer-max-deliver", "", 5, "Maximum delivery attempts before DLQ")
	workerCmd.PersistentFlags().
		StringP("consumer-ack-wait", "", "60s", "Time to wait for acknowledgment before retry")
	workerCmd.PersistentFlags().
		IntP("consumer-max-ack-pending", "", 64, "Maximum unacknowledged messages")
	workerCmd.PersistentFlags().
		StringSliceP("consumer-back-off", "", []string{"1s", "5s", "15s", "30s"}, "Retry backoff intervals")
	workerCmd.PersistentFlags().
		IntP("max-in-flight", "", 8, "Maximum lookup commands processed concurrently")

	_ = viper.BindPFlag(
		"worker.consumer.max_deliver",
		workerCmd.PersistentFlags().Lookup("consumer-max-deliver"),
	)
	_ = viper.BindPFlag(
		"worker.consumer.ack_wait",
		workerCmd.PersistentFlags().Lookup("consumer-ack-wait"),
	)
	_ = viper.BindPFlag(
		"worker.consumer.max_ack_pending",
		workerCmd.PersistentFlags().Lookup("consumer-max-ack-pending"),
	)
	_ = viper.BindPFlag(
		"worker.consumer.back_off",
		workerCmd.PersistentFlags().Lookup("consumer-back-off"),
	)
	_ = viper.BindPFlag(
		"worker.max_in_flight",
		workerCmd.PersistentFlags().Lookup("max-in-flight"),
	)
}
