// internal/uploader/obs_uploader.go
package uploader

import (
	"bytes"
	"errors"
	"fmt"
	"path"

	"github.com/huaweicloud/huaweicloud-sdk-go-obs/obs"
)

// ReportPrefix is the folder in the bucket that run reports are written to.
const ReportPrefix = "reports"

// ObsUploader wraps the OBS client and the target bucket.
type ObsUploader struct {
	client *obs.ObsClient
	bucket string
}

// NewObsUploader creates an uploader for bucket.
func NewObsUploader(endpoint, ak, sk, bucket string) (*ObsUploader, error) {
	client, err := obs.New(ak, sk, endpoint)
	if err != nil {
		return nil, fmt.Errorf("create OBS client: %w", err)
	}

	return &ObsUploader{
		client: client,
		bucket: bucket,
	}, nil
}

// ReportKey returns the object key of the report of a run.
func ReportKey(runID string) string {
	return path.Join(ReportPrefix, runID+".json")
}

// UploadReport stores a JSON report of a run and returns its object key.
func (u *ObsUploader) UploadReport(runID string, report []byte) (string, error) {
	input := &obs.PutObjectInput{}
	input.Bucket = u.bucket
	input.Key = ReportKey(runID)
	input.ContentType = "application/json"
	input.Body = bytes.NewReader(report)

	if _, err := u.client.PutObject(input); err != nil {
		var obsError obs.ObsError
		if errors.As(err, &obsError) {
			return "", fmt.Errorf("upload report %s: OBS error %s: %s", input.Key, obsError.Code, obsError.Message)
		}
		return "", fmt.Errorf("upload report %s: %w", input.Key, err)
	}
	return input.Key, nil
}

// Close closes the client.
func (u *ObsUploader) Close() {
	if u.client != nil {
		u.client.Close()
	}
}
