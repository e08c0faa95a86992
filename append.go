package khiopsdriver

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// OpenAppendWriter resolves the concrete target object (taking the last
// match when keyOrPattern is a glob), starts a fresh multipart upload on
// it, and seeds that upload from the existing object's contents (server-side
// UploadPartCopy for the bulk, a buffered tail for the remainder) before
// handing back a Writer ready for further Write calls.
//
// When the target doesn't exist (no glob match, or the literal key is not
// found), this falls back to a plain open-write on the resolved key.
func OpenAppendWriter(ctx context.Context, client Client, bucket, keyOrPattern string) (*Writer, error) {
	target := keyOrPattern
	if _, isGlob := IsGlob(keyOrPattern); isGlob {
		matches, err := listMatching(ctx, client, bucket, keyOrPattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return OpenWriter(ctx, client, bucket, keyOrPattern)
		}
		target = matches[len(matches)-1].Key
	}

	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(target),
	})
	if err != nil {
		if classifyStoreErr(err) == KindNotFound {
			return OpenWriter(ctx, client, bucket, target)
		}
		return nil, wrapStoreErr("head object for append", err)
	}

	out, err := client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(target),
	})
	if err != nil {
		return nil, wrapStoreErr("create multipart upload for append", err)
	}

	w := &Writer{
		ctx:            ctx,
		client:         client,
		bucket:         bucket,
		key:            target,
		uploadID:       aws.ToString(out.UploadId),
		nextPartNumber: 1,
		appendSource:   target,
	}

	if err := w.seedFromSource(aws.ToInt64(head.ContentLength)); err != nil {
		_ = w.Abort()
		return nil, err
	}

	return w, nil
}

// seedFromSource copies sourceSize bytes of w.appendSource into w's
// multipart upload: bounded server-side part copies for the bulk, a
// buffered tail (downloaded, not copied) for the remainder so it can be
// combined with subsequent Write calls.
func (w *Writer) seedFromSource(sourceSize int64) error {
	var start int64
	remaining := sourceSize

	for remaining > buffMin {
		chunk := remaining
		if chunk > buffMax {
			chunk = buffMax
		}
		end := start + chunk - 1
		if err := w.copyPart(start, end); err != nil {
			return err
		}
		start += chunk
		remaining -= chunk
	}

	if remaining > 0 {
		tail, err := w.getRangeBody(start, start+remaining-1)
		if err != nil {
			return err
		}
		w.buffer = append(w.buffer, tail...)
	}

	return nil
}

func (w *Writer) copyPart(start, end int64) error {
	partNumber := w.nextPartNumber
	out, err := w.client.UploadPartCopy(w.ctx, &s3.UploadPartCopyInput{
		Bucket:          aws.String(w.bucket),
		Key:             aws.String(w.key),
		UploadId:        aws.String(w.uploadID),
		PartNumber:      aws.Int32(partNumber),
		CopySource:      aws.String(copySource(w.bucket, w.appendSource)),
		CopySourceRange: aws.String(fmt.Sprintf("bytes=%d-%d", start, end)),
	})
	if err != nil {
		return wrapStoreErr("upload part copy", err)
	}
	w.completedParts = append(w.completedParts, completedPart{partNumber: partNumber, etag: aws.ToString(out.CopyPartResult.ETag)})
	w.nextPartNumber++
	return nil
}

func (w *Writer) getRangeBody(start, end int64) ([]byte, error) {
	out, err := w.client.GetObject(w.ctx, &s3.GetObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.appendSource),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", start, end)),
	})
	if err != nil {
		return nil, wrapStoreErr("get object range for append tail", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// copySource builds the "bucket/url-encoded-key" form UploadPartCopy and
// CopyObject expect for CopySource.
func copySource(bucket, key string) string {
	return bucket + "/" + url.QueryEscape(key)
}
