package khiopsdriver

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go/logging"
)

// LogLevel mirrors the configuration bag's log_level option (see
// Options.logLevel for its default). getClient does not consult it: SDK
// logging is switched on by HTTPDebug alone, through the AWS SDK's own
// aws.Logger/ClientLogMode facility driven by the standard library logger.
// The driver itself does not use a structured logging library.
type LogLevel string

const (
	LogLevelError = LogLevel("error")
	LogLevelInfo  = LogLevel("info")
	LogLevelDebug = LogLevel("debug")
	LogLevelTrace = LogLevel("trace")
)

// Options holds the configuration bag the driver is connected with. It is
// opaque to the host beyond these fields: nothing here is read from a file
// or environment variable by this package, that discovery is the host's job.
type Options struct {
	DefaultBucket string `json:"defaultBucket,omitempty"`

	AccessKeyID     string `json:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
	SessionToken    string `json:"sessionToken,omitempty"`
	RoleARN         string `json:"roleARN,omitempty"`

	Region         string `json:"region,omitempty"`
	Endpoint       string `json:"endpoint,omitempty"`
	ForcePathStyle bool   `json:"forcePathStyle,omitempty"`

	RetryMaxAttempts int `json:"retryMaxAttempts,omitempty"`

	AllowSystemProxy bool     `json:"allowSystemProxy,omitempty"`
	LogLevel         LogLevel `json:"logLevel,omitempty"`
	HTTPDebug        bool     `json:"httpDebug,omitempty"`
}

func (o Options) logLevel() LogLevel {
	if o.LogLevel == "" {
		return LogLevelInfo
	}
	return o.LogLevel
}

// getClient builds a live S3 client from Options, following credential
// precedence: static credentials, then role assumption via STS, then the
// SDK's default chain.
func getClient(ctx context.Context, opt Options) (Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if !opt.AllowSystemProxy {
		loadOpts = append(loadOpts, config.WithHTTPClient(
			awshttp.NewBuildableClient().WithTransportOptions(func(tr *http.Transport) {
				tr.Proxy = nil
			}),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsConfig, func(opts *s3.Options) {
		if opt.Region != "" {
			opts.Region = opt.Region
		} else if opts.Region == "" {
			opts.Region = "us-east-1"
		}

		opts.UsePathStyle = opt.ForcePathStyle

		if opt.Endpoint != "" {
			opts.BaseEndpoint = aws.String(opt.Endpoint)
		}

		if opt.RetryMaxAttempts > 0 {
			opts.Retryer = retry.NewStandard(func(ro *retry.StandardOptions) {
				ro.MaxAttempts = opt.RetryMaxAttempts
			})
		}

		switch {
		case opt.AccessKeyID != "" && opt.SecretAccessKey != "":
			opts.Credentials = credentials.NewStaticCredentialsProvider(
				opt.AccessKeyID,
				opt.SecretAccessKey,
				opt.SessionToken,
			)
		case opt.RoleARN != "":
			opts.Credentials = aws.NewCredentialsCache(
				stscreds.NewAssumeRoleProvider(sts.NewFromConfig(awsConfig), opt.RoleARN),
			)
		}

		if opt.HTTPDebug {
			opts.ClientLogMode = aws.LogRequestWithBody | aws.LogResponseWithBody
			opts.Logger = sdkLogger{}
		}
	}), nil
}

// sdkLogger adapts the standard library logger to the aws-sdk-go-v2
// aws.Logger interface, the only logging facility present anywhere in the
// reference material's own library code.
type sdkLogger struct{}

func (sdkLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	log.Printf("[%s] "+format, append([]interface{}{classification}, v...)...)
}
