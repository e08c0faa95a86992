package khiopsdriver

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Reader is the virtual file produced by resolving a URI (literal key or
// glob) to an ordered list of parts. It satisfies io.Reader, io.ReaderAt,
// io.Seeker and io.Closer so it composes with the rest of the standard
// library.
type Reader struct {
	ctx    context.Context
	client Client

	bucket           string
	originalPattern  string
	parts            []Part
	cumulativeSizes  []int64
	commonHeaderLen  int64
	totalSize        int64

	offset int64
}

// OpenReader resolves pattern (a literal key or a glob) under bucket and
// returns a Reader positioned at offset 0.
func OpenReader(ctx context.Context, client Client, bucket, pattern string) (*Reader, error) {
	r, err := resolveParts(ctx, client, bucket, pattern)
	if err != nil {
		return nil, err
	}
	return &Reader{
		ctx:             ctx,
		client:          client,
		bucket:          bucket,
		originalPattern: pattern,
		parts:           r.parts,
		cumulativeSizes: r.cumulativeSizes,
		commonHeaderLen: r.commonHeaderLength,
		totalSize:       r.totalSize,
	}, nil
}

// Size returns the resolved logical size of the virtual file (the last entry
// of the cumulative-size index, i.e. total size minus repeated-header savings).
func (r *Reader) Size() int64 { return r.totalSize }

// upperBound returns the smallest part index whose cumulative size strictly
// exceeds offset.
func (r *Reader) upperBound(offset int64) int {
	return sort.Search(len(r.cumulativeSizes), func(i int) bool {
		return r.cumulativeSizes[i] > offset
	})
}

// Read implements io.Reader, filling p with bytes starting at the current
// offset and advancing it by the number of bytes actually read. On a store
// error it returns 0 and the error, and the offset is left unchanged.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.readAt(p, r.offset)
	if err != nil {
		return 0, err
	}
	r.offset += int64(n)
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadAt implements io.ReaderAt without moving the cursor.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	n, err := r.readAt(p, off)
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// readAt walks forward through parts starting from the one containing off,
// issuing one ranged GET per part until len(p) bytes have been filled or
// EOF is reached.
func (r *Reader) readAt(p []byte, off int64) (int, error) {
	if off >= r.totalSize || len(p) == 0 {
		return 0, nil
	}

	toRead := int64(len(p))
	if off+toRead > r.totalSize {
		toRead = r.totalSize - off
	}

	idx := r.upperBound(off)
	var localStart int64
	if idx == 0 {
		localStart = off
	} else {
		localStart = off - r.cumulativeSizes[idx-1] + r.commonHeaderLen
	}

	var bytesRead int64
	for toRead > 0 {
		if idx >= len(r.parts) {
			break
		}
		part := r.parts[idx]

		prevCumulative := int64(0)
		if idx > 0 {
			prevCumulative = r.cumulativeSizes[idx-1]
		}
		remainingInPart := r.cumulativeSizes[idx] - prevCumulative - (localStart - boolToHeader(idx > 0, r.commonHeaderLen))
		if remainingInPart <= 0 {
			idx++
			localStart = r.commonHeaderLen
			continue
		}

		want := toRead
		if want > remainingInPart {
			want = remainingInPart
		}
		localEnd := localStart + want - 1
		if localEnd >= part.Size {
			localEnd = part.Size - 1
		}

		n, err := r.getRange(part.Key, localStart, localEnd, p[bytesRead:bytesRead+(localEnd-localStart+1)])
		if err != nil {
			return int(bytesRead), err
		}
		bytesRead += int64(n)
		toRead -= int64(n)

		if int64(n) < (localEnd - localStart + 1) {
			// short read: treat as EOF on this part and stop.
			break
		}

		idx++
		localStart = r.commonHeaderLen
	}

	return int(bytesRead), nil
}

// boolToHeader returns headerLen when cond is true, else 0. Kept as a small
// helper so the offset arithmetic in readAt stays readable.
func boolToHeader(cond bool, headerLen int64) int64 {
	if cond {
		return headerLen
	}
	return 0
}

func (r *Reader) getRange(key string, start, end int64, dst []byte) (int, error) {
	out, err := r.client.GetObject(r.ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", start, end)),
	})
	if err != nil {
		return 0, wrapStoreErr("get object range", err)
	}
	defer out.Body.Close()
	n, err := io.ReadFull(out.Body, dst)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	if err != nil {
		return n, wrapStoreErr("read object range body", err)
	}
	return n, nil
}

// Seek implements io.Seeker. End is relative to total_size - 1 + offset
// when total_size > 0, else offset directly. The result must be
// non-negative.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = r.offset + offset
	case io.SeekEnd:
		if r.totalSize > 0 {
			newOffset = r.totalSize - 1 + offset
		} else {
			newOffset = offset
		}
	default:
		return 0, errSeekInvalidWhence
	}
	if newOffset < 0 {
		return 0, errSeekInvalidOffset
	}
	r.offset = newOffset
	return r.offset, nil
}

// Close releases no server-side resources; it exists to satisfy io.Closer
// and the handle registry's stream contract.
func (r *Reader) Close() error { return nil }
