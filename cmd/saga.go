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

// sagaCmd represents the saga command.
var sagaCmd = &cobra.Command{
	Use:   "saga",
	Short: "The saga subcommand",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Debug(
			"saga configuration",
			slog.String("config_file", viper.ConfigFileUsed()),
			slog.Bool("debug", appConfig.Debug),
			slog.String("saga.nats.host", appConfig.Saga.NATS.Host),
			slog.Int("saga.nats.port", appConfig.Saga.NATS.Port),
			slog.String("saga.nats.client_name", appConfig.Saga.NATS.ClientName),
			slog.String("saga.consumer.name", appConfig.Saga.Consumer.Name),
			slog.String("saga.sweeper.schedule", appConfig.Saga.Sweeper.Schedule),
			slog.String("saga.sweeper.stale_after", appConfig.Saga.Sweeper.StaleAfter),
		)
	},
}

func init() {
	rootCmd.AddCommand(sagaCmd)

	sagaCmd.PersistentFlags().
		StringP("sweeper-schedule", "", "@every 1m", "Cron schedule for the stalled saga sweep")
	sagaCmd.PersistentFlags().
		StringP("sweeper-stale-after", "", "2m", "Age after which a processing saga is considered stalled")

	_ = viper.BindPFlag(
		"saga.sweeper.schedule",
		sagaCmd.PersistentFlags().Lookup("sweeper-schedule"),
	)
	_ = viper.BindPFlag(
		"saga.sweeper.stale_after",
		sagaCmd.PersistentFlags().Lookup("sweeper-stale-after"),
	)
}
