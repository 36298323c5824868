package manifest

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	marianerrors "github.com/mongodb/marian/internal/errors"
)

// BucketFetcher is the `bucket:<bucket>/<prefix>` reference implementation
// of Fetcher (§6): it lists objects under a prefix and downloads each one
// that matches the manifest filename shape.
type BucketFetcher struct {
	Bucket string
	Prefix string
	Sess   *session.Session
}

// NewBucketFetcher builds a BucketFetcher over a fresh AWS session.
func NewBucketFetcher(bucket, prefix string) (*BucketFetcher, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return &BucketFetcher{Bucket: bucket, Prefix: prefix, Sess: sess}, nil
}

// Fetch lists every object under Prefix and downloads the ones whose key
// matches the manifest filename shape. A listing truncated at 1000
// objects (the single-page ListObjectsV2 limit) is fatal per §7 — this
// design does not paginate.
func (f *BucketFetcher) Fetch(ctx context.Context) ([]Entry, []error) {
	client := s3.New(f.Sess)

	listing, err := client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(f.Bucket),
		Prefix: aws.String(f.Prefix),
	})
	if err != nil {
		return nil, []error{err}
	}
	if aws.BoolValue(listing.IsTruncated) {
		return nil, []error{marianerrors.NewListingTruncatedError(f.Bucket+"/"+f.Prefix, len(listing.Contents))}
	}

	downloader := s3manager.NewDownloader(f.Sess)

	var entries []Entry
	var errs []error
	for _, obj := range listing.Contents {
		key := aws.StringValue(obj.Key)
		searchProperty, ok := SearchPropertyForKey(key)
		if !ok {
			errs = append(errs, marianerrors.NewManifestParseError(key, "filename does not match ([^/]+).json$"))
			continue
		}

		buf := aws.NewWriteAtBuffer([]byte{})
		if _, err := downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
			Bucket: aws.String(f.Bucket),
			Key:    obj.Key,
		}); err != nil {
			errs = append(errs, marianerrors.NewManifestParseError(searchProperty, err.Error()))
			continue
		}

		entries = append(entries, Entry{
			Body:           string(buf.Bytes()),
			LastModified:   aws.TimeValue(obj.LastModified),
			SearchProperty: searchProperty,
		})
	}
	return entries, errs
}
