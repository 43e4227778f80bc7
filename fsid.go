package pathkit

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mitchellh/mapstructure"
)

// Filesystem identity (fsid) computation.
//
// The fsid is an opaque token deciding whether two (protocol, options)
// pairs address the same underlying backend. It is derived purely from
// the protocol and a documented per-protocol subset of the options —
// endpoint, account, host and port, base directory — never from
// credentials or behavior flags, and never by contacting the backend.
//
// Equality, hashing and relative-path computation use the fsid when it
// is defined. Protocols whose identity cannot be determined statically
// (memory, data, archive members, unknown protocols) return ok=false
// and callers fall back to comparing the full option sets.

// Per-protocol identity-relevant option subsets. Decoded from the raw
// option map with mapstructure; unknown keys are ignored, which is
// what makes irrelevant options invisible to identity.
type hostPortOptions struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type localOptions struct {
	BasePath string `mapstructure:"base_path"`
}

type s3Options struct {
	EndpointURL string `mapstructure:"endpoint_url"`
}

type azureOptions struct {
	AccountName string `mapstructure:"account_name"`
}

type adlOptions struct {
	TenantID  string `mapstructure:"tenant_id"`
	StoreName string `mapstructure:"store_name"`
}

type ociOptions struct {
	Region string `mapstructure:"region"`
}

type ossOptions struct {
	Endpoint string `mapstructure:"endpoint"`
}

type webdavOptions struct {
	BaseURL string `mapstructure:"base_url"`
}

func decodeOptions(opts Options, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]string(opts))
}

// tokenize derives a short stable token from the identity-relevant
// fields.
func tokenize(parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func hostPortIdentity(prefix string, opts Options, defaultPort int) (string, bool) {
	var hp hostPortOptions
	if err := decodeOptions(opts, &hp); err != nil || hp.Host == "" {
		return "", false
	}
	if hp.Port == 0 {
		hp.Port = defaultPort
	}
	return prefix + "_" + tokenize(hp.Host, strconv.Itoa(hp.Port)), true
}

// Identity computes the filesystem identity token for a protocol and
// option set. ok=false means the identity is undefined for this
// protocol and equality must fall back to full option comparison.
func Identity(protocol string, opts Options) (string, bool) {
	switch protocol {
	case "", "file", "local":
		// base_path re-roots every sub-path, so it selects a different
		// filesystem; all other local options are behavior flags.
		var lo localOptions
		if err := decodeOptions(opts, &lo); err == nil && lo.BasePath != "" {
			return "local_" + tokenize(lo.BasePath), true
		}
		return "local", true
	case "http", "https":
		return "http", true
	case "gs", "gcs":
		// single global endpoint
		return "gcs", true
	case "box":
		return "box", true
	case "dropbox":
		return "dropbox", true

	// Host + port based
	case "sftp", "ssh":
		return hostPortIdentity("sftp", opts, 22)
	case "smb":
		return hostPortIdentity("smb", opts, 445)
	case "ftp":
		return hostPortIdentity("ftp", opts, 21)
	case "webhdfs":
		return hostPortIdentity("webhdfs", opts, 50070)

	// Cloud object storage
	case "s3", "s3a":
		var so s3Options
		if err := decodeOptions(opts, &so); err != nil {
			return "", false
		}
		endpoint := so.EndpointURL
		if endpoint == "" {
			endpoint = "https://s3.amazonaws.com"
		}
		if u, err := url.Parse(endpoint); err == nil &&
			(u.Host == "s3.amazonaws.com" || strings.HasSuffix(u.Host, ".amazonaws.com")) {
			return "s3_aws", true
		}
		return "s3_" + tokenize(endpoint), true
	case "az", "abfs":
		var ao azureOptions
		if err := decodeOptions(opts, &ao); err != nil || ao.AccountName == "" {
			return "", false
		}
		return "abfs_" + tokenize(ao.AccountName), true
	case "adl":
		var ao adlOptions
		if err := decodeOptions(opts, &ao); err != nil || ao.TenantID == "" || ao.StoreName == "" {
			return "", false
		}
		return "adl_" + tokenize(ao.TenantID, ao.StoreName), true
	case "oci":
		var oo ociOptions
		if err := decodeOptions(opts, &oo); err != nil || oo.Region == "" {
			return "", false
		}
		return "oci_" + tokenize(oo.Region), true
	case "oss":
		var oo ossOptions
		if err := decodeOptions(opts, &oo); err != nil || oo.Endpoint == "" {
			return "", false
		}
		return "oss_" + tokenize(oo.Endpoint), true
	case "webdav":
		var wo webdavOptions
		if err := decodeOptions(opts, &wo); err != nil || wo.BaseURL == "" {
			return "", false
		}
		return "webdav_" + tokenize(wo.BaseURL), true

	// Non-durable or dependent on the containing filesystem
	case "memory", "data", "zip", "tar":
		return "", false

	default:
		return "", false
	}
}
