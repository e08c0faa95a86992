// Package mocks holds a hand-written stand-in for khiopsdriver.Client, in
// the shape mockery would generate, since mockery itself isn't run here.
package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of khiopsdriver.Client.
type Client struct {
	mock.Mock
}

// NewClient constructs a Client mock and registers a cleanup that asserts
// every expectation was met, mirroring mockery's generated constructor.
func NewClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *Client {
	m := &Client{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// callArgs appends only the opts actually passed, so expectations set up
// with just (ctx, input) still match calls made with no functional options.
func callArgs(ctx context.Context, in interface{}, opts []func(*s3.Options)) []interface{} {
	args := make([]interface{}, 0, len(opts)+2)
	args = append(args, ctx, in)
	for _, o := range opts {
		args = append(args, o)
	}
	return args
}

func (m *Client) GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.GetObjectOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.GetObjectOutput)
	}
	return out, args.Error(1)
}

func (m *Client) PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.PutObjectOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.PutObjectOutput)
	}
	return out, args.Error(1)
}

func (m *Client) HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.HeadObjectOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.HeadObjectOutput)
	}
	return out, args.Error(1)
}

func (m *Client) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.HeadBucketOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.HeadBucketOutput)
	}
	return out, args.Error(1)
}

func (m *Client) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.ListObjectsV2Output
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.ListObjectsV2Output)
	}
	return out, args.Error(1)
}

func (m *Client) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.DeleteObjectOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.DeleteObjectOutput)
	}
	return out, args.Error(1)
}

func (m *Client) CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.CreateMultipartUploadOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.CreateMultipartUploadOutput)
	}
	return out, args.Error(1)
}

func (m *Client) UploadPart(ctx context.Context, in *s3.UploadPartInput, opts ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.UploadPartOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.UploadPartOutput)
	}
	return out, args.Error(1)
}

func (m *Client) UploadPartCopy(ctx context.Context, in *s3.UploadPartCopyInput, opts ...func(*s3.Options)) (*s3.UploadPartCopyOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.UploadPartCopyOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.UploadPartCopyOutput)
	}
	return out, args.Error(1)
}

func (m *Client) CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.CompleteMultipartUploadOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.CompleteMultipartUploadOutput)
	}
	return out, args.Error(1)
}

func (m *Client) AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, opts ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	args := m.Called(callArgs(ctx, in, opts)...)
	var out *s3.AbortMultipartUploadOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.AbortMultipartUploadOutput)
	}
	return out, args.Error(1)
}
