/*
Package khiopsdriver implements a file-access driver over S3-compatible object
storage, exposing a POSIX-like stream interface (open/read/write/seek/close,
plus whole-file copy) to a host that otherwise has no notion of buckets or
byte ranges.

Philosophy

A remote "file" as far as a caller is concerned is either a single object or
a glob pattern that resolves to a number of sibling objects, each sharing an
optional, repeated header line (the shape produced by many data-pipeline
sharding tools: every shard re-emits the same CSV header). The driver hides
that distinction behind a single Reader: callers read a contiguous byte
stream, and the Reader maps each logical offset onto the right underlying
object and byte range, stripping the repeated header from every part after
the first.

Writes are built the same way object storage itself is built: as a staged
multipart upload with a minimum and maximum part size, buffered internally so
that short Write calls don't produce undersized parts. Opening a stream in
append mode bootstraps a new multipart upload from an existing object using
server-side part copies for the bulk of its content and a small buffered tail
for the remainder, since S3 objects themselves cannot be mutated in place.

Usage

	drv := khiopsdriver.New()
	opts := khiopsdriver.Options{DefaultBucket: "my-bucket"}
	if err := drv.Connect(context.Background(), opts); err != nil {
		log.Fatal(err)
	}
	defer drv.Disconnect()

	h, err := drv.FOpen("s3://my-bucket/shards/part-*.csv", khiopsdriver.ModeRead)
	if err != nil {
		log.Fatal(drv.GetLastError())
	}
	defer drv.FClose(h)

	buf := make([]byte, 4096)
	n, err := drv.FRead(buf, h)

Scope

The driver is a library, not a process: the host is expected to sit a
C-linkage shim on top of the exported methods (one function per operation,
translating Go errors into the status codes a C caller expects) and to
resolve configuration (credentials, endpoint, region) from its own
environment before constructing an Options value. Neither of those concerns
is implemented here.

License

Distributed under the MIT license.
*/
package khiopsdriver
