package pictureBed

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// InitS3 builds the S3 client. Static credentials are used when configured, otherwise the
// default AWS credential chain.
func (pb *PictureBed) InitS3(ctx context.Context) error {
	if pb.Bucket == "" {
		return fmt.Errorf("s3 bucket is not configured")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(pb.Region),
	}
	if pb.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(pb.AccessKey, pb.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	pb.s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if pb.Endpoint != "" {
			o.BaseEndpoint = aws.String(pb.Endpoint)
		}
		o.UsePathStyle = pb.UsePathStyle
	})
	pb.uploader = manager.NewUploader(pb.s3Client)
	return nil
}

func (pb *PictureBed) objectKey(key string) string {
	return strings.TrimLeft(path.Join(pb.Prefix, key), "/")
}

func (pb *PictureBed) putObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	if pb.uploader == nil {
		if err := pb.InitS3(ctx); err != nil {
			return err
		}
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(pb.Bucket),
		Key:    aws.String(pb.objectKey(key)),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	_, err := pb.uploader.Upload(ctx, input)
	return err
}

// deleteObject succeeds for keys that do not exist; S3 treats that as a no-op.
func (pb *PictureBed) deleteObject(ctx context.Context, key string) error {
	if pb.s3Client == nil {
		if err := pb.InitS3(ctx); err != nil {
			return err
		}
	}
	_, err := pb.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(pb.Bucket),
		Key:    aws.String(pb.objectKey(key)),
	})
	return err
}

func (pb *PictureBed) listObjects(ctx context.Context) ([]string, error) {
	if pb.s3Client == nil {
		if err := pb.InitS3(ctx); err != nil {
			return nil, err
		}
	}
	prefix := ""
	if pb.Prefix != "" {
		prefix = pb.Prefix + "/"
	}
	var keys []string
	pager := s3.NewListObjectsV2Paginator(pb.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(pb.Bucket),
		Prefix: aws.String(prefix),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name != "" && !strings.Contains(name, "/") {
				keys = append(keys, name)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (pb *PictureBed) objectURL(key string) string {
	base := pb.BaseURL
	if base == "" {
		base = strings.TrimRight(pb.Endpoint, "/")
	}
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", pb.Bucket, pb.Region)
		return base + "/" + pb.objectKey(key)
	}
	if pb.UsePathStyle {
		return base + "/" + pb.Bucket + "/" + pb.objectKey(key)
	}
	return base + "/" + pb.objectKey(key)
}
