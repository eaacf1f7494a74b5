package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/s0up4200/engagevoice/engagevoice"
	"github.com/s0up4200/engagevoice/query"
)

var (
	requestData    string
	requestForm    []string
	requestHeaders []string
	requestQuery   string
	includeStatus  bool
)

// requestCmd represents the request command
var requestCmd = &cobra.Command{
	Use:   "request METHOD PATH",
	Short: "Send an authenticated request",
	Long: `Send an authenticated request to the Engage Voice API.

Relative paths are resolved against the server and API prefix, so
"api/v1/admin/accounts" becomes "https://engage.ringcentral.com/voice/api/v1/admin/accounts".
Absolute URLs are sent unchanged.

Examples:
  engagevoice request GET api/v1/admin/accounts
  engagevoice request POST api/v1/admin/accounts/123/campaigns --data @campaign.json
  engagevoice request GET api/v1/admin/accounts --query 'map(body, {.accountId})'`,
	Args: cobra.ExactArgs(2),
	RunE: runRequest,
}

var compiler = query.NewCompiler(query.WithCache(16))

func init() {
	requestCmd.Flags().StringVarP(&requestData, "data", "d", "", "JSON request body, or @file to read it from a file")
	requestCmd.Flags().StringArrayVarP(&requestForm, "form", "F", nil, "form field as key=value (repeatable)")
	requestCmd.Flags().StringArrayVarP(&requestHeaders, "header", "H", nil, "extra header as 'Name: value' (repeatable)")
	requestCmd.Flags().StringVarP(&requestQuery, "query", "q", "", "expression evaluated against the decoded response")
	requestCmd.Flags().BoolVarP(&includeStatus, "include", "i", false, "print the response status line")
	requestCmd.MarkFlagsMutuallyExclusive("data", "form")

	rootCmd.AddCommand(requestCmd)
}

func runRequest(cmd *cobra.Command, args []string) error {
	method := strings.ToUpper(args[0])

	var q *query.Query
	if requestQuery != "" {
		var err error
		if q, err = compiler.Compile(requestQuery); err != nil {
			return err
		}
	}

	data, err := requestBody()
	if err != nil {
		return err
	}
	header, err := parseHeaders(requestHeaders)
	if err != nil {
		return err
	}

	resp, err := client.Dispatch(cmd.Context(), &engagevoice.Request{
		Method: method,
		URL:    args[1],
		Data:   data,
		Header: header,
	})
	if err != nil {
		var te *engagevoice.TransportError
		if errors.As(err, &te) && len(te.Body) > 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), string(te.Body))
		}
		return explain(err)
	}

	out := cmd.OutOrStdout()
	if includeStatus {
		fmt.Fprintf(out, "%d %s\n", resp.Status, resp.StatusText)
	}

	if q == nil {
		fmt.Fprintln(out, formatBody(resp.Body))
		return nil
	}

	var body any
	if err := resp.Decode(&body); err != nil {
		return err
	}
	result, err := q.Evaluate(query.Input{Status: resp.Status, Body: body})
	if err != nil {
		return err
	}
	if s, ok := result.(string); ok {
		fmt.Fprintln(out, s)
		return nil
	}
	return printJSON(cmd, result)
}

// requestBody builds the request payload from --data or --form
func requestBody() (any, error) {
	if len(requestForm) > 0 {
		return parseForm(requestForm)
	}
	if requestData == "" {
		return nil, nil
	}

	raw := []byte(requestData)
	if path, ok := strings.CutPrefix(requestData, "@"); ok {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func parseForm(fields []string) (url.Values, error) {
	form := make(url.Values, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid form field %q (want key=value)", f)
		}
		form.Add(k, v)
	}
	return form, nil
}

func parseHeaders(values []string) (http.Header, error) {
	if len(values) == 0 {
		return nil, nil
	}
	header := make(http.Header, len(values))
	for _, h := range values {
		k, v, ok := strings.Cut(h, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid header %q (want 'Name: value')", h)
		}
		header.Add(k, strings.TrimSpace(v))
	}
	return header, nil
}

// formatBody indents JSON bodies and returns anything else unchanged
func formatBody(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}
