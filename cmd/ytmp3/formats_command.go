package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ytget/ytmp3/internal/download"
	"github.com/ytget/ytmp3/internal/model"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "formats URL",
		Short: "List the streams of a video and the ones ytmp3 would pick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolver := ctx.resolverFactory(cfg, ctx.logger)

			meta, err := resolver.ResolveVideo(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve video: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", meta.Title, meta.ID)
			fmt.Fprintln(out, renderFormats(meta))
			return nil
		},
	}
}

func renderFormats(meta *model.VideoMetadata) string {
	picks := make(map[string]string)
	if s, err := download.SelectAudioStream(meta); err == nil {
		picks[s.ID] = "audio"
	}
	if s, err := download.SelectVideoStream(meta); err == nil {
		picks[s.ID] = "video"
	}

	headers := []string{"Itag", "Type", "Container", "Resolution", "Bitrate", "Size", "Pick"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, len(meta.Streams))
	for _, s := range meta.Streams {
		kind := "video"
		if s.IsAudioOnly {
			kind = "audio"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Itag),
			kind,
			s.Container,
			dash(s.Resolution),
			formatBitrate(s.Bitrate),
			formatSize(s.ContentLength),
			picks[s.ID],
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatBitrate(bps int) string {
	if bps <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d kbps", bps/1000)
}

func formatSize(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
