// Package globals provides flags shared by catalog commands.
package globals

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/toolhub/internal/cmd/cmdutil"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

// AddCollectionFlag adds --collection/-c to cmd.
func AddCollectionFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("collection", "c", catalog.CollectionTools,
		fmt.Sprintf("Collection: %s", strings.Join(catalog.Collections(), ", ")))
}

// ParseCollection returns the kind named by --collection.
func ParseCollection(cmd *cobra.Command) (catalog.Kind, error) {
	name := cmdutil.MustGetString(cmd, "collection")
	kind, ok := catalog.KindForCollection(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return "", errors.NewValidationError("collection", name,
			"must be one of "+strings.Join(catalog.Collections(), ", "))
	}
	return kind, nil
}

// AddQueryFlags adds the search and filter flags that mirror the HTTP
// list parameters.
func AddQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("category", nil, "Filter by category (repeatable, comma-separated)")
	cmd.Flags().StringSlice("pricing", nil, "Filter by pricing model: FREE, PAID, FREE_PAID")
	cmd.Flags().StringSlice("platform", nil, "Filter by platform")
	cmd.Flags().StringSlice("use-case", nil, "Filter by use case")
	cmd.Flags().Bool("free", false, "Only items with a free tier")
	cmd.Flags().String("sort", "", "Sort: popular, newest, name")
	cmd.Flags().Int("limit", 0, "Page size (0 uses the configured default)")
	cmd.Flags().Int("offset", 0, "Offset into the results")
	cmd.Flags().String("cursor", "", "Resume after a cursor from a previous page")
}

// QueryValues encodes the query flags as URL parameters so the CLI and
// the HTTP API share one parser. term is the search term.
func QueryValues(cmd *cobra.Command, term string) url.Values {
	values := url.Values{}
	if term != "" {
		values.Set("q", term)
	}
	for flag, param := range map[string]string{
		"category": "category",
		"pricing":  "pricing",
		"platform": "platform",
		"use-case": "use_case",
	} {
		for _, v := range cmdutil.MustGetStringSlice(cmd, flag) {
			values.Add(param, v)
		}
	}
	if cmdutil.MustGetBool(cmd, "free") {
		values.Set("free", "true")
	}
	if sort := cmdutil.MustGetString(cmd, "sort"); sort != "" {
		values.Set("sort", sort)
	}
	if limit := cmdutil.MustGetInt(cmd, "limit"); limit != 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if offset := cmdutil.MustGetInt(cmd, "offset"); offset != 0 {
		values.Set("offset", strconv.Itoa(offset))
	}
	if cursor := cmdutil.MustGetString(cmd, "cursor"); cursor != "" {
		values.Set("cursor", cursor)
	}
	return values
}
