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
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/lookout-io/lookout/internal/cli"
)

// clientJobAddCmd represents the clientJobAdd command.
var clientJobAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Submit a lookup job",
	Long: `Submits a lookup job for a target via the REST API. The target may
be an IP address or a DNS name. Lookups run asynchronously; poll the job
with 'client job get' for progress.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		target, _ := cmd.Flags().GetString("target")
		services, _ := cmd.Flags().GetStringSlice("services")

		resp, err := apiClient.CreateJob(ctx, target, services)
		if err != nil {
			cli.LogFatal(logger, "failed to create job", err)
		}

		switch resp.StatusCode {
		case http.StatusAccepted:
			if jsonOutput {
				fmt.Println(string(resp.Body))
				return
			}

			if resp.JSON202 == nil {
				cli.LogFatal(logger, "failed response", fmt.Errorf("create job response was nil"))
			}

			fmt.Println()
			cli.PrintKV("Job ID", resp.JSON202.JobID)

			logger.Info("job created successfully",
				slog.String("job_id", resp.JSON202.JobID),
				slog.String("target", target),
			)
		case http.StatusBadRequest:
			if resp.JSON400 != nil {
				for field, message := range resp.JSON400.Fields {
					fmt.Println(cli.DimStyle.Render(fmt.Sprintf("  %s: %s", field, message)))
				}
				cli.LogFatal(logger, "job rejected", fmt.Errorf("%s", resp.JSON400.Error))
			}

			cli.LogFatal(logger, "job rejected", fmt.Errorf("status %d", resp.StatusCode))
		case http.StatusTooManyRequests:
			cli.LogFatal(logger, "rate limit exceeded", nil,
				"status", fmt.Sprintf("%d", resp.StatusCode),
			)
		default:
			message := fmt.Sprintf("status %d", resp.StatusCode)
			if resp.JSONError != nil {
				message = resp.JSONError.Error
			}
			cli.LogFatal(logger, "failed to create job", fmt.Errorf("%s", message))
		}
	},
}

func init() {
	clientJobCmd.AddCommand(clientJobAddCmd)

	clientJobAddCmd.PersistentFlags().
		StringP("target", "t", "", "Target to look up: an IP address or DNS name")
	clientJobAddCmd.PersistentFlags().
		StringSliceP("services", "s", nil, "Lookup services to run (default: all)")

	_ = clientJobAddCmd.MarkPersistentFlagRequired("target")
}
