package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Conte777/tubedrop/config"
	"github.com/Conte777/tubedrop/internal/domain/media/consts"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
	mediaerrors "github.com/Conte777/tubedrop/internal/domain/media/errors"
	"github.com/Conte777/tubedrop/internal/domain/media/usecase/business"
	"github.com/Conte777/tubedrop/internal/infrastructure/logger"
	"github.com/Conte777/tubedrop/internal/infrastructure/ytdlp"
)

func newFormatsCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "formats <url>",
		Short: "Print the video qualities the bot would offer for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !business.ContainsSupportedURL(args[0]) {
				return mediaerrors.ErrUnsupportedURL
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := logger.NewWithWriter(cfg.Logging.Level, cmd.ErrOrStderr())

			ctx, cancel := contextWithTimeout(cmd, timeout)
			defer cancel()

			if cfg.YtDlp.AutoInstall && cfg.YtDlp.Path == "" {
				if err := ytdlp.Install(ctx, log); err != nil {
					return err
				}
			}

			client := ytdlp.NewClient(&cfg.YtDlp, nil, log)
			uc := business.NewUseCase(nil, client, nil, nil, &cfg.Media, log)

			options, err := uc.QueryFormats(ctx, args[0])
			if err != nil && !errors.Is(err, mediaerrors.ErrNoQualifyingFormats) {
				return err
			}

			return printFormats(cmd.OutOrStdout(), options, cfg.Media)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "metadata query timeout")

	return cmd
}

func printFormats(w io.Writer, options []entities.FormatOption, cfg config.MediaConfig) error {
	if len(options) == 0 {
		_, err := fmt.Fprintf(w, consts.MessageNoQualities+"\n", strings.ToUpper(cfg.VideoContainer), cfg.AutoMaxHeight)
		return err
	}

	for _, opt := range options {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", opt.Label(), opt.FormatID); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%-20s "+consts.AutoVideoFormat+"\n",
		fmt.Sprintf(consts.ButtonAutoFmt, cfg.AutoMaxHeight), cfg.AutoMaxHeight)
	return err
}
