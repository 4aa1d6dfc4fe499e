package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/asynchttp/httpclient"
	"github.com/utkarsh5026/asynchttp/pool"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

const maxBodyWidth = 72

// result is one rendered row of the sync or async commands.
type result struct {
	name    string
	request *httpclient.Request
	resp    *httpclient.Response
	err     error
	elapsed time.Duration
	note    string
}

func printSectionHeader(w io.Writer, title string, lines ...string) {
	fmt.Fprintln(w)
	bold.Fprintln(w, title)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

func renderResults(w io.Writer, results []result) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Scenario", "Request", "Status", "Time", "Body", "Notable Headers")

	for i, r := range results {
		status, body, headers := "-", "", ""
		if r.err != nil {
			status = red.Sprint("error")
			body = r.err.Error()
		} else {
			status = statusString(r.resp.StatusCode)
			body = truncate(r.resp.Body, maxBodyWidth)
			headers = notableHeaders(r.resp.Headers)
		}
		if r.note != "" {
			body = r.note + "\n" + body
		}

		if err := table.Append(
			fmt.Sprint(i+1),
			r.name,
			r.request.Method+" "+r.request.URL,
			status,
			r.elapsed.Round(time.Millisecond).String(),
			body,
			headers,
		); err != nil {
			return err
		}
	}

	return table.Render()
}

func renderPoolStats(w io.Writer, workers int, s pool.Stats) error {
	table := tablewriter.NewWriter(w)
	table.Header("Workers", "Submitted", "Completed", "Failed", "Rejected", "Discarded")
	if err := table.Append(
		fmt.Sprint(workers),
		fmt.Sprint(s.Submitted),
		fmt.Sprint(s.Completed),
		fmt.Sprint(s.Failed),
		fmt.Sprint(s.Rejected),
		fmt.Sprint(s.Discarded),
	); err != nil {
		return err
	}
	return table.Render()
}

func statusString(code int) string {
	s := fmt.Sprint(code)
	switch {
	case code >= 200 && code < 300:
		return green.Sprint(s)
	case code >= 400 && code < 500:
		return yellow.Sprint(s)
	default:
		return red.Sprint(s)
	}
}

// notableHeaders lists every header except the two the fixture always sets.
func notableHeaders(h map[string]string) string {
	keys := make([]string, 0, len(h))
	for k, v := range h {
		if (k == "Connection" && v == "close") || (k == "Content-Type" && v == "application/json") {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+h[k])
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
