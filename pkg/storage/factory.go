package storage

import (
	"context"
	"fmt"
)

const (
	DriverLocal            = "local"
	DriverR2               = "r2"
	DriverCloudflareImages = "cloudflare_images"
)

type Options struct {
	Driver           string
	LocalDir         string
	LocalPrefix      string
	R2               R2Config
	CloudflareImages CloudflareImagesConfig
}

// New selects the backend named by opts.Driver.
func New(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case "", DriverLocal:
		return NewLocalStorage(opts.LocalDir, opts.LocalPrefix)
	case DriverR2:
		if opts.R2.Bucket == "" || opts.R2.PublicURL == "" {
			return nil, fmt.Errorf("r2 storage requires a bucket and a public url")
		}
		return NewCloudflareStorage(ctx, opts.R2)
	case DriverCloudflareImages:
		if opts.CloudflareImages.AccountID == "" || opts.CloudflareImages.AccountHash == "" {
			return nil, fmt.Errorf("cloudflare images storage requires an account id and hash")
		}
		return NewCloudflareImages(opts.CloudflareImages), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
