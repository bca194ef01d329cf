package nb2pdf

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

// identityConfigPrefix starts every identity config file name. The suffix is
// unique per request so concurrent conversions never share a file.
const identityConfigPrefix = ".nb2pdf_config-"

// IdentityConfigName returns a fresh request-scoped config file name.
func IdentityConfigName() string {
	return identityConfigPrefix + uuid.NewString() + ".json"
}

// MarshalIdentity renders the identity fields as indented JSON.
func MarshalIdentity(cfg IdentityConfig) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// BuildIdentityConfig writes the identity config for one request into dir.
// The caller must run cleanup on every exit path; cleanup ignores errors.
func BuildIdentityConfig(s Settings, dir string) (path string, cleanup func(), err error) {
	data, err := MarshalIdentity(s.Identity())
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrIdentityConfig, err)
	}

	path, cleanup, err = fileutil.WriteScopedFile(dir, IdentityConfigName(), data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrIdentityConfig, err)
	}
	return path, cleanup, nil
}
