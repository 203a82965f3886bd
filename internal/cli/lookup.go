package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dalfonso89/prayer-times-api/internal/app"
	"github.com/dalfonso89/prayer-times-api/internal/logger"
	"github.com/dalfonso89/prayer-times-api/internal/service"
)

func newLookupCmd(version string) *cobra.Command {
	var asrAdjustment, highlight bool

	cmd := &cobra.Command{
		Use:     "lookup <location>",
		Short:   "Print the prayer-times response for a location",
		Example: `  prayer-times-api lookup "London, UK" --highlight`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Logs go to stderr so stdout stays valid JSON.
			log := logger.NewWithOutput(cfg.LogLevel, cmd.ErrOrStderr())
			application, err := app.New(cfg, log, version)
			if err != nil {
				return err
			}
			defer application.Close()

			request := service.Request{
				Location:      strings.Join(args, " "),
				AsrAdjustment: asrAdjustment,
				Highlight:     highlight,
			}
			return runLookup(cmd, application.Service, request, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&asrAdjustment, "asr-adjustment", false, "Use the midpoint of dhuhr and sunset for asr")
	cmd.Flags().BoolVar(&highlight, "highlight", false, "Wrap prayer names in the status string in ** markers")

	return cmd
}

func runLookup(cmd *cobra.Command, svc *service.PrayerTimesService, request service.Request, out io.Writer) error {
	response, err := svc.GetPrayerTimes(cmd.Context(), request)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", request.Location, err)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}
