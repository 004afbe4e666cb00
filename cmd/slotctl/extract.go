package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/flight-intent/internal/extraction"
)

type extractor interface {
	Extract(ctx context.Context, utterance string) (extraction.Result, error)
}

func newExtractCommand() *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "extract <request...>",
		Short: "Extract the booking slots from one request and print them as JSON",
		Example: `  slotctl extract "round trip from Lahore to Karachi between 10th and 15th December"
  echo "2 adults to Quetta tomorrow" | slotctl extract -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(raw)
			}
			e, cleanup, err := buildExtractor(cmd.Context())
			defer cleanup()
			if err != nil {
				return err
			}
			return runExtract(cmd.Context(), cmd.OutOrStdout(), e, text, !compact)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print the result on one line")
	return cmd
}

func runExtract(ctx context.Context, w io.Writer, e extractor, text string, indent bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("request text is empty")
	}
	res, err := e.Extract(ctx, text)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(struct {
		extraction.Result
		Complete bool `json:"complete"`
	}{Result: res, Complete: res.Complete()})
}
