package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/chalktalk/chalktalk/pkg/cli"
	"github.com/chalktalk/chalktalk/pkg/scene"
	"github.com/chalktalk/chalktalk/pkg/storage"
)

var renderFlags struct {
	sceneFile string
	outDir    string
	frames    int
	bucket    string
	prefix    string
}

var renderCmd = &cobra.Command{
	Use:   "render [scene-file]",
	Short: "Export a scene as SVG frames",
	Long: `Sample a scene at evenly spaced playback positions and write each
frame as a standalone SVG, plus a manifest.json. Frames go to a local
directory by default, or to an S3-compatible bucket with --bucket.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			renderFlags.sceneFile = args[0]
		}
		if renderFlags.sceneFile == "" {
			return fmt.Errorf("a scene file is required (argument or --scene)")
		}
		var doc map[string]any
		if renderFlags.sceneFile == "-" {
			if err := cli.LoadStdin(&doc); err != nil {
				return err
			}
		} else if err := cli.LoadFile(renderFlags.sceneFile, &doc); err != nil {
			return err
		}
		viz, err := scene.DecodeValue(doc)
		if err != nil {
			return fmt.Errorf("scene unusable: %w", err)
		}

		var fs storage.FileStore
		if renderFlags.bucket != "" {
			client, err := newS3Client()
			if err != nil {
				return err
			}
			fs = storage.NewS3(client, renderFlags.bucket, renderFlags.prefix)
		} else {
			fs, err = storage.NewLocal(renderFlags.outDir)
			if err != nil {
				return err
			}
		}

		if err := storage.ExportSVG(cmd.Context(), fs, viz, viz.ID, renderFlags.frames); err != nil {
			return err
		}
		cli.PrintSuccess("%d frames exported under %s/", renderFlags.frames, viz.ID)
		return nil
	},
}

// newS3Client builds an S3 client from AWS_REGION, AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY. AWS_ENDPOINT_URL_S3 selects an S3-compatible
// endpoint such as MinIO.
func newS3Client() (*s3.Client, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	ak := os.Getenv("AWS_ACCESS_KEY_ID")
	sk := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if ak == "" || sk == "" {
		return nil, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set for --bucket")
	}
	opts := s3.Options{
		Region: region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: ak, SecretAccessKey: sk}, nil
		}),
	}
	if ep := os.Getenv("AWS_ENDPOINT_URL_S3"); ep != "" {
		opts.BaseEndpoint = aws.String(ep)
		opts.UsePathStyle = true
	}
	return s3.New(opts), nil
}

func init() {
	renderCmd.Flags().StringVar(&renderFlags.sceneFile, "scene", "", "scene file (json or yaml), '-' for stdin")
	renderCmd.Flags().StringVar(&renderFlags.outDir, "out", "frames", "local output directory")
	renderCmd.Flags().IntVar(&renderFlags.frames, "frames", 24, "number of frames to sample")
	renderCmd.Flags().StringVar(&renderFlags.bucket, "bucket", "", "S3 bucket to upload to instead of local output")
	renderCmd.Flags().StringVar(&renderFlags.prefix, "s3-prefix", "chalktalk", "key prefix for S3 uploads")
	rootCmd.AddCommand(renderCmd)
}
