package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/ytmp3/internal/download"
	"github.com/ytget/ytmp3/internal/model"
	"github.com/ytget/ytmp3/internal/platform"
	"github.com/ytget/ytmp3/internal/status"
)

var (
	errInputMissing = errors.New("a YouTube URL is required")
	errJobFailed    = errors.New("download failed")
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "video URL",
		Short: "Download a video in its highest progressive resolution",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, ctx, model.KindSingle, false, args)
		},
	}
}

func newAudioCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "audio URL",
		Short: "Download the best audio stream of a video as .mp3",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, ctx, model.KindSingle, true, args)
		},
	}
}

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "playlist URL",
		Short: "Download every playlist item as .mp3 into a folder named after the playlist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, ctx, model.KindPlaylist, true, args)
		},
	}
}

// runDownload starts one job and drives the interface loop until it ends
func runDownload(cmd *cobra.Command, ctx *commandContext, kind model.JobKind, audioOnly bool, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	terminal := status.NewTerminal(cmd.OutOrStdout())

	url := ""
	if len(args) > 0 {
		url = strings.TrimSpace(args[0])
	}
	if url == "" {
		download.WarnInputMissing(kind, terminal)
		return errInputMissing
	}

	runner, err := ctx.newRunner(cmd.Context())
	if err != nil {
		return err
	}

	target := model.DownloadTarget{
		URL:            url,
		Kind:           kind,
		AudioOnly:      audioOnly,
		DestinationDir: cfg.Paths.DownloadDir,
	}
	jobID, started := runner.Run(kind, target)
	if !started {
		return fmt.Errorf("a %s download is already running", kind.Label())
	}

	download.Pump(cmd.Context(), runner.Events(), jobID, terminal)
	runner.Wait()

	if err := cmd.Context().Err(); err != nil {
		return err
	}

	state := runner.State(kind)
	if state.Status != model.JobStatusSucceeded {
		return errJobFailed
	}

	if cfg.Download.AutoReveal && state.OutputPath != "" {
		if err := platform.OpenFileInManager(state.OutputPath); err != nil {
			ctx.logger.Warn("failed to reveal download", "path", state.OutputPath, "error", err)
		}
	}
	return nil
}
