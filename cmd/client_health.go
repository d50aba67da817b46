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
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/lookout-io/lookout/internal/cli"
)

// clientHealthCmd represents the clientHealth command.
var clientHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check API server health",
	Long:  `Checks the API server's liveness and readiness endpoints.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		live, err := apiClient.GetHealthLive(ctx)
		if err != nil {
			cli.LogFatal(logger, "failed to check liveness", err)
		}

		ready, err := apiClient.GetHealthReady(ctx)
		if err != nil {
			cli.LogFatal(logger, "failed to check readiness", err)
		}

		if jsonOutput {
			fmt.Printf(`{"live":%s,"ready":%s}`+"\n", string(live.Body), string(ready.Body))
			return
		}

		fmt.Println()
		cli.PrintKV("Live", healthLabel(live.StatusCode))
		cli.PrintKV("Ready", healthLabel(ready.StatusCode))
		if ready.JSON200 != nil && ready.JSON200.Error != "" {
			cli.PrintKV("Error", ready.JSON200.Error)
		}
	},
}

// healthLabel maps a health endpoint status code to its display label.
func healthLabel(
	statusCode int,
) string {
	if statusCode == http.StatusOK {
		return "ok"
	}

	return "unavailable"
}

func init() {
	clientCmd.AddCommand(clientHealthCmd)
}
