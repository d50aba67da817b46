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
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/lookout-io/lookout/internal/cli"
	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/query"
)

// clientJobGetCmd represents the clientJobGet command.
var clientJobGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get job details and status",
	Long:  `Retrieves a job's assembled view and current status via the REST API.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		jobID, _ := cmd.Flags().GetString("job-id")

		resp, err := apiClient.GetJob(ctx, jobID)
		if err != nil {
			cli.LogFatal(logger, "failed to get job", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			if jsonOutput {
				fmt.Println(string(resp.Body))
				return
			}

			if resp.JSON200 == nil {
				cli.LogFatal(logger, "failed response", fmt.Errorf("job view response was nil"))
			}

			displayJobView(resp.JSON200)
		case http.StatusNotFound:
			cli.LogFatal(logger, "job not found", nil, "job_id", jobID)
		default:
			message := fmt.Sprintf("status %d", resp.StatusCode)
			if resp.JSONError != nil {
				message = resp.JSONError.Error
			}
			cli.LogFatal(logger, "failed to get job", fmt.Errorf("%s", message))
		}
	},
}

// displayJobView renders the assembled job view.
func displayJobView(
	view *query.JobView,
) {
	fmt.Println()
	cli.PrintKV("Job ID", view.JobID, "Status", string(view.Status))
	cli.PrintKV("Target", view.Target, "Kind", string(view.TargetKind))
	cli.PrintKV("Age", cli.FormatAge(time.Since(view.CreatedAt)))
	if view.CompletedAt != nil {
		cli.PrintKV("Completed At", view.CompletedAt.Format(time.RFC3339))
	}

	pending := make([]string, 0, len(view.Pending))
	for _, kind := range view.Pending {
		pending = append(pending, string(kind))
	}
	cli.PrintKV("Pending", cli.FormatList(pending))

	if len(view.Results) == 0 {
		return
	}

	kinds := make([]string, 0, len(view.Results))
	for kind := range view.Results {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	rows := make([][]string, 0, len(kinds))
	for _, kind := range kinds {
		result := view.Results[lookup.ServiceKind(kind)]

		status := fmt.Sprintf("%t", result.Success)
		if result.Unavailable {
			status = "unavailable"
		}

		detail := result.ErrorMessage
		if detail == "" {
			detail = string(result.Data)
		}

		rows = append(rows, []string{
			kind,
			status,
			fmt.Sprintf("%dms", result.DurationMS),
			result.CompletedAt.Format(time.RFC3339),
			detail,
		})
	}

	cli.PrintCompactTable([]cli.Section{
		{
			Title:   "Results",
			Headers: []string{"Service", "Status", "Duration", "Completed At", "Detail"},
			Rows:    rows,
		},
	})
}

func init() {
	clientJobCmd.AddCommand(clientJobGetCmd)

	clientJobGetCmd.PersistentFlags().
		StringP("job-id", "", "", "Job ID to retrieve")

	_ = clientJobGetCmd.MarkPersistentFlagRequired("job-id")
}
