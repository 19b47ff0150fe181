package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nasadm/truenasctl/internal/app"
	"github.com/nasadm/truenasctl/internal/core/domain"
	apperrors "github.com/nasadm/truenasctl/internal/errors"
)

var (
	queryFilters []string
	queryOptions []string
)

var queryCmd = &cobra.Command{
	Use:   "query <method>",
	Short: "Invoke an arbitrary middleware query method and print the result.",
	Long: `Runs any middleware query method (for example iscsi.portal.query or
pool.dataset.query) with optional filters, printing the raw JSON result.
Filters are field=value pairs combined conjunctively. Values parse as JSON-ish
literals: integers, floats, true/false, and null become typed values, anything
else stays a string; surround a value with double quotes to force a string.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseFilters(queryFilters)
		if err != nil {
			return err
		}
		options, err := parseOptions(queryOptions)
		if err != nil {
			return err
		}
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}
		return application.Query(cmd.Context(), args[0], filters, options)
	},
}

func parseFilters(raw []string) ([]domain.Filter, error) {
	filters := make([]domain.Filter, 0, len(raw))
	for _, f := range raw {
		field, value, ok := splitPair(f)
		if !ok {
			return nil, apperrors.Newf(apperrors.CodeUsageError,
				"invalid filter %q, expected field=value", f)
		}
		filters = append(filters, domain.Filter{Field: field, Op: "=", Value: parseLiteral(value)})
	}
	return filters, nil
}

func parseOptions(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	options := make(map[string]any, len(raw))
	for _, o := range raw {
		key, value, ok := splitPair(o)
		if !ok {
			return nil, apperrors.Newf(apperrors.CodeUsageError,
				"invalid option %q, expected key=value", o)
		}
		options[key] = parseLiteral(value)
	}
	return options, nil
}

func splitPair(s string) (string, string, bool) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// parseLiteral turns a command-line value into the typed form the middleware
// expects, since its query filters are type strict.
func parseLiteral(s string) any {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func init() {
	queryCmd.Flags().StringArrayVar(&queryFilters, "filter", nil, "Filter as field=value; repeatable")
	queryCmd.Flags().StringArrayVar(&queryOptions, "option", nil, "Query option as key=value; repeatable")
	rootCmd.AddCommand(queryCmd)
}
