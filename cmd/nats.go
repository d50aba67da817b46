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

// natsCmd represents the nats command.
var natsCmd = &cobra.Command{
	Use:   "nats",
	Short: "The nats subcommand",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Debug(
			"nats configuration",
			slog.String("config_file", viper.ConfigFileUsed()),
			slog.Bool("debug", appConfig.Debug),
			slog.String("nats.server.host", appConfig.NATS.Server.Host),
			slog.Int("nats.server.port", appConfig.NATS.Server.Port),
			slog.String("nats.server.store_dir", appConfig.NATS.Server.StoreDir),
		)
	},
}

func init() {
	rootCmd.AddCommand(natsCmd)

	natsCmd.PersistentFlags().
		StringP("nats-host", "", "0.0.0.0", "Host the embedded NATS server will bind to")
	natsCmd.PersistentFlags().
		IntP("nats-port", "", 4222, "Port the embedded NATS server will listen on")
	natsCmd.PersistentFlags().
		StringP("nats-store-dir", "", "/var/lib/lookout/jetstream", "JetStream storage directory")

	_ = viper.BindPFlag("nats.server.host", natsCmd.PersistentFlags().Lookup("nats-host"))
	_ = viper.BindPFlag("nats.server.port", natsCmd.PersistentFlags().Lookup("nats-port"))
	_ = viper.BindPFlag(
		"nats.server.store_dir",
		natsCmd.PersistentFlags().Lookup("nats-store-dir"),
	)
}
