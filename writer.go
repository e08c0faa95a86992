package khiopsdriver

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	// buffMin is the multipart minimum part size (except the final part).
	buffMin = 5 * 1024 * 1024
	// buffMax is the multipart maximum part size.
	buffMax = 5 * 1024 * 1024 * 1024
)

type completedPart struct {
	partNumber int32
	etag       string
}

// Writer is a multipart-upload-backed stream. It buffers internally so that
// short Write calls don't produce undersized parts, and flushes the residual
// buffer as the final part (exempt from the minimum) on Close.
type Writer struct {
	ctx    context.Context
	client Client

	bucket string
	key    string

	uploadID       string
	completedParts []completedPart
	nextPartNumber int32

	buffer []byte

	appendSource string
	closed       bool
}

// OpenWriter starts a fresh multipart upload for bucket/key and returns a
// Writer ready for Write calls (open-write mode, no append seeding).
func OpenWriter(ctx context.Context, client Client, bucket, key string) (*Writer, error) {
	out, err := client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapStoreErr("create multipart upload", err)
	}
	return &Writer{
		ctx:            ctx,
		client:         client,
		bucket:         bucket,
		key:            key,
		uploadID:       aws.ToString(out.UploadId),
		nextPartNumber: 1,
	}, nil
}

// Write implements io.Writer. Every byte is accepted into the internal
// buffer; whenever the buffer reaches buffMin it is flushed as an UploadPart
// before any further bytes are copied in, so parts never exceed buffMax.
func (w *Writer) Write(src []byte) (int, error) {
	written := 0
	for written < len(src) {
		room := buffMax - len(w.buffer)
		n := len(src) - written
		if n > room {
			n = room
		}
		w.buffer = append(w.buffer, src[written:written+n]...)
		written += n

		for len(w.buffer) >= buffMin {
			if err := w.flushPart(w.buffer); err != nil {
				// Leave the unflushed tail in the buffer so the same bytes
				// can be retried by the caller.
				return written, err
			}
			w.buffer = w.buffer[:0]
		}
	}
	return written, nil
}

// flushPart uploads body as the next part and records its etag.
func (w *Writer) flushPart(body []byte) error {
	partNumber := w.nextPartNumber
	out, err := w.client.UploadPart(w.ctx, &s3.UploadPartInput{
		Bucket:     aws.String(w.bucket),
		Key:        aws.String(w.key),
		UploadId:   aws.String(w.uploadID),
		PartNumber: aws.Int32(partNumber),
		Body:       bytes.NewReader(body),
	})
	if err != nil {
		return wrapStoreErr("upload part", err)
	}
	w.completedParts = append(w.completedParts, completedPart{partNumber: partNumber, etag: aws.ToString(out.ETag)})
	w.nextPartNumber++
	return nil
}

// Close flushes the residual buffer as the final part (regardless of size)
// and completes the multipart upload. On failure the upload is left open so
// the caller can retry Close or disconnect can Abort it.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.flushPart(w.buffer); err != nil {
		return err
	}
	w.buffer = w.buffer[:0]

	parts := make([]types.CompletedPart, len(w.completedParts))
	for i, p := range w.completedParts {
		parts[i] = types.CompletedPart{PartNumber: aws.Int32(p.partNumber), ETag: aws.String(p.etag)}
	}

	if _, err := w.client.CompleteMultipartUpload(w.ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(w.bucket),
		Key:             aws.String(w.key),
		UploadId:        aws.String(w.uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: parts},
	}); err != nil {
		return wrapStoreErr("complete multipart upload", err)
	}

	w.closed = true
	return nil
}

// Abort discards the multipart upload. It is used by the handle registry's
// disconnect path, not by normal Close.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	_, err := w.client.AbortMultipartUpload(w.ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(w.bucket),
		Key:      aws.String(w.key),
		UploadId: aws.String(w.uploadID),
	})
	if err != nil {
		return wrapStoreErr("abort multipart upload", err)
	}
	w.closed = true
	return nil
}
