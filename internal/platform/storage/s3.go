// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage wraps the S3-compatible object store that holds shared files.

The API never proxies file bytes. Uploads and downloads go straight from the
browser to the bucket through short-lived presigned URLs; the server only
signs them after the access rules have been checked.
*/
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options configures the S3 client.
type Options struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	PresignTTL   time.Duration
}

// S3 signs object URLs and removes objects for a single bucket.
type S3 struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewS3 builds a client from static credentials when given, otherwise from
// the default AWS credential chain.
func NewS3(context context.Context, opts Options) (*S3, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}

	loaders := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(context, loaders...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	ttl := opts.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  opts.Bucket,
		ttl:     ttl,
	}, nil
}

// PresignUpload returns a PUT URL the browser uses to upload the object.
func (store *S3) PresignUpload(context context.Context, key, contentType string) (string, error) {
	request, err := store.presign.PresignPutObject(context, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(store.ttl))
	if err != nil {
		return "", fmt.Errorf("storage: presign upload %q: %w", key, err)
	}
	return request.URL, nil
}

// PresignDownload returns a GET URL that serves the object as an attachment
// named filename.
func (store *S3) PresignDownload(context context.Context, key, filename string) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	}
	if filename != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", filename))
	}

	request, err := store.presign.PresignGetObject(context, input, s3.WithPresignExpires(store.ttl))
	if err != nil {
		return "", fmt.Errorf("storage: presign download %q: %w", key, err)
	}
	return request.URL, nil
}

// Delete removes the object. Deleting a missing key is not an error on S3.
func (store *S3) Delete(context context.Context, key string) error {
	_, err := store.client.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %q: %w", key, err)
	}
	return nil
}

// TTL is the lifetime of the URLs this client signs.
func (store *S3) TTL() time.Duration {
	return store.ttl
}
