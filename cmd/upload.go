package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tonplace/tonplace"
)

var (
	albumID    int
	uploadName string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload media for use as attachments",
}

var uploadPhotoCmd = &cobra.Command{
	Use:   "photo <file>",
	Short: "Upload a JPEG photo",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		data, opts, err := readUpload(args[0])
		if err != nil {
			return nil, err
		}
		return api.UploadPhoto(ctx, data, opts...)
	}),
}

var uploadVideoCmd = &cobra.Command{
	Use:   "video <file>",
	Short: "Upload an MP4 video",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		data, opts, err := readUpload(args[0])
		if err != nil {
			return nil, err
		}
		return api.UploadVideo(ctx, data, opts...)
	}),
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.AddCommand(uploadPhotoCmd, uploadVideoCmd)

	uploadCmd.PersistentFlags().IntVar(&albumID, "album", tonplace.DefaultAlbumID, "album id")
	uploadCmd.PersistentFlags().StringVar(&uploadName, "name", "", "file name sent to the server (default: the local file name)")
}

func readUpload(path string) ([]byte, []tonplace.UploadOption, error) {
	data, err := afero.ReadFile(appFs, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := uploadName
	if name == "" {
		name = filepath.Base(path)
	}

	return data, []tonplace.UploadOption{
		tonplace.WithAlbum(albumID),
		tonplace.WithFileName(name),
	}, nil
}
