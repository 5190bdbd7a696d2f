package coord

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pspoerri/mapproj/internal/config"
)

// Resolve finds a projection by key. A key defined in settings (which may be
// nil) wins; otherwise "EPSG:<code>" or a bare code goes through ForEPSG and
// anything else through ForName.
func Resolve(key string, settings *config.Settings) (Projection, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("empty projection key")
	}
	if settings != nil {
		if n, err := settings.Lookup(key); err == nil {
			return FromNode(n)
		}
	}

	code := key
	if len(code) > 5 && strings.EqualFold(code[:5], "epsg:") {
		code = code[5:]
	}
	if epsg, err := strconv.Atoi(code); err == nil {
		if p := ForEPSG(epsg); p != nil {
			return p, nil
		}
		return nil, errors.Newf("unsupported EPSG code %d", epsg)
	}
	if p := ForName(key); p != nil {
		return p, nil
	}
	return nil, errors.Newf("unknown projection %q (known: %s)", key, strings.Join(Names(), ", "))
}
