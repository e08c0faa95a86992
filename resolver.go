package khiopsdriver

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Part is a single S3 object contributing to a (possibly multi-object)
// virtual file.
type Part struct {
	Key  string
	Size int64
}

// resolved is the output of resolveParts: everything a Reader needs to map
// logical offsets onto ranged GETs.
type resolved struct {
	parts               []Part
	cumulativeSizes      []int64
	commonHeaderLength   int64
	totalSize            int64
}

// resolveParts implements the multi-part resolver (listing a glob, reading
// first lines to detect a shared header, building the cumulative-size
// index) or, for a literal key, a single HeadObject.
func resolveParts(ctx context.Context, client Client, bucket, keyOrPattern string) (*resolved, error) {
	if _, isGlob := IsGlob(keyOrPattern); !isGlob {
		out, err := client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(keyOrPattern),
		})
		if err != nil {
			return nil, wrapStoreErr("head object", err)
		}
		size := aws.ToInt64(out.ContentLength)
		return &resolved{
			parts:           []Part{{Key: keyOrPattern, Size: size}},
			cumulativeSizes: []int64{size},
			totalSize:       size,
		}, nil
	}

	parts, err := listMatching(ctx, client, bucket, keyOrPattern)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, newErr(KindNotFound, fmt.Sprintf("no object matches pattern %q", keyOrPattern), nil)
	}
	if len(parts) == 1 {
		return &resolved{
			parts:           parts,
			cumulativeSizes: []int64{parts[0].Size},
			totalSize:       parts[0].Size,
		}, nil
	}

	return resolveWithHeader(ctx, client, bucket, parts)
}

// listMatching pages through ListObjectsV2 under the pattern's literal
// prefix, filtering every page with Match and preserving list order.
func listMatching(ctx context.Context, client Client, bucket, pattern string) ([]Part, error) {
	idx, _ := IsGlob(pattern)
	prefix := pattern[:idx]

	var matches []Part
	var token *string
	for {
		out, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, wrapStoreErr("list objects", err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if Match(key, pattern) {
				matches = append(matches, Part{Key: key, Size: aws.ToInt64(obj.Size)})
			}
		}
		if !aws.ToBool(out.IsTruncated) || aws.ToString(out.NextContinuationToken) == "" {
			break
		}
		token = out.NextContinuationToken
	}
	return matches, nil
}

// resolveWithHeader reads first lines in list order, stopping at the first
// part whose line differs from part 0's, to decide whether they all agree
// before building the cumulative-size
// index with the shared header's length subtracted from every part after
// the first.
func resolveWithHeader(ctx context.Context, client Client, bucket string, parts []Part) (*resolved, error) {
	header, err := readFirstLine(ctx, client, bucket, parts[0].Key)
	if err != nil {
		return nil, err
	}

	sameHeader := true
	for i := 1; i < len(parts); i++ {
		if !sameHeader {
			break
		}
		curr, err := readFirstLine(ctx, client, bucket, parts[i].Key)
		if err != nil {
			return nil, err
		}
		if curr != header {
			sameHeader = false
		}
	}

	commonHeaderLength := int64(0)
	if sameHeader {
		commonHeaderLength = int64(len(header))
	}

	cumulative := make([]int64, len(parts))
	var total int64
	for i, p := range parts {
		effective := p.Size
		if i > 0 && commonHeaderLength > 0 {
			effective -= commonHeaderLength
		}
		total += effective
		cumulative[i] = total
	}

	return &resolved{
		parts:              parts,
		cumulativeSizes:    cumulative,
		commonHeaderLength: commonHeaderLength,
		totalSize:          total,
	}, nil
}

// readFirstLine fetches key's body and reads up to and including the first
// '\n', or the entire object if it is shorter than one line. The response
// body is closed as soon as the line has been read; the rest of the object
// is never downloaded.
func readFirstLine(ctx context.Context, client Client, bucket, key string) (string, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", wrapStoreErr("get object for header", err)
	}
	defer out.Body.Close()

	line, err := bufio.NewReader(out.Body).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", newErr(KindInternal, "header read failed", err)
	}
	if line == "" {
		return "", newErr(KindInternal, "empty header", errEmptyHeader)
	}
	return line, nil
}
