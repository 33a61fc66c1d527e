package business

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Conte777/tubedrop/internal/domain/media/consts"
	"github.com/Conte777/tubedrop/internal/domain/media/dto"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
	mediaerrors "github.com/Conte777/tubedrop/internal/domain/media/errors"
)

// ListFormats offers the video qualities of the pending URL.
// When the metadata query fails or nothing qualifies it falls through to the
// automatic default download instead of leaving the user without a choice.
func (uc *UseCase) ListFormats(ctx context.Context, req *dto.ButtonRequest) error {
	if uc.sender == nil {
		return mediaerrors.ErrSenderNotSet
	}

	url, err := uc.resolveURL(req)
	if err != nil {
		uc.reportSelectionError(ctx, req, err)
		return err
	}

	options, err := uc.QueryFormats(ctx, url)
	switch {
	case errors.Is(err, mediaerrors.ErrNoQualifyingFormats):
		uc.logger.Info().Err(err).Int64("chat_id", req.ChatID).Msg("Using automatic default")
		uc.metrics.RecordFormatListing("empty")
		uc.editStatus(ctx, req.Status(), fmt.Sprintf(consts.MessageNoQualities,
			strings.ToUpper(uc.cfg.VideoContainer), uc.cfg.AutoMaxHeight))
		return uc.runDownload(ctx, req, url, entities.KindVideo, "")
	case err != nil:
		uc.logger.Error().Err(err).Int64("chat_id", req.ChatID).Msg("Error while fetching video qualities")
		uc.metrics.RecordFormatListing("error")
		uc.editStatus(ctx, req.Status(), fmt.Sprintf(consts.MessageQualitiesFailed, uc.cfg.AutoMaxHeight))
		return uc.runDownload(ctx, req, url, entities.KindVideo, "")
	}

	uc.metrics.RecordFormatListing("ok")

	keyboard := BuildQualityKeyboard(options, uc.cfg.AutoMaxHeight)
	text := fmt.Sprintf(consts.MessageChooseQuality, strings.ToUpper(uc.cfg.VideoContainer))

	if err := uc.sender.EditKeyboard(ctx, req.Status(), text, keyboard); err != nil {
		return fmt.Errorf("failed to present qualities: %w", err)
	}

	uc.logger.Info().
		Int64("chat_id", req.ChatID).
		Int("options", len(options)).
		Msg("Video qualities offered")

	return nil
}

// QueryFormats fetches metadata for url and selects the offerable qualities.
// It returns ErrNoQualifyingFormats when nothing can be offered.
func (uc *UseCase) QueryFormats(ctx context.Context, url string) ([]entities.FormatOption, error) {
	info, err := uc.extractor.FetchInfo(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mediaerrors.ErrExtraction, err)
	}

	options := SelectFormats(info.Formats, uc.cfg.VideoContainer)
	if len(options) == 0 {
		return nil, mediaerrors.ErrNoQualifyingFormats
	}

	return options, nil
}

// SelectFormats keeps variants in container with both streams and a known
// height, orders them by height descending and keeps the first per height.
func SelectFormats(formats []entities.EncodingDescriptor, container string) []entities.FormatOption {
	candidates := make([]entities.EncodingDescriptor, 0, len(formats))
	for _, f := range formats {
		if f.Container != container || !f.HasVideo() || !f.HasAudio() || f.Height == nil {
			continue
		}
		candidates = append(candidates, f)
	}

	// stable: equal heights keep the extractor's order
	slices.SortStableFunc(candidates, func(a, b entities.EncodingDescriptor) int {
		return cmp.Compare(*b.Height, *a.Height)
	})

	seen := make(map[int]struct{}, len(candidates))
	options := make([]entities.FormatOption, 0, len(candidates))

	for _, f := range candidates {
		height := *f.Height
		if _, dup := seen[height]; dup {
			continue
		}
		seen[height] = struct{}{}

		opt := entities.FormatOption{Height: height, FormatID: f.FormatID}
		if size, ok := f.Size(); ok {
			opt.ApproxSizeBytes = &size
		}
		options = append(options, opt)
	}

	return options
}

// BuildQualityKeyboard renders options two per row with the automatic
// default alone on the last row
func BuildQualityKeyboard(options []entities.FormatOption, autoMaxHeight int) entities.Keyboard {
	keyboard := make(entities.Keyboard, 0, len(options)/consts.ButtonsPerRow+2)
	row := make([]entities.Button, 0, consts.ButtonsPerRow)

	for _, opt := range options {
		row = append(row, entities.Button{
			Text: opt.Label(),
			Data: dto.EncodeVideoFormat(opt.FormatID),
		})

		if len(row) == consts.ButtonsPerRow {
			keyboard = append(keyboard, row)
			row = make([]entities.Button, 0, consts.ButtonsPerRow)
		}
	}

	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	keyboard = append(keyboard, []entities.Button{{
		Text: fmt.Sprintf(consts.ButtonAutoFmt, autoMaxHeight),
		Data: consts.PayloadVideoAutoDefault,
	}})

	return keyboard
}
