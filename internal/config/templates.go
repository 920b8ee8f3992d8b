package config

import (
	"fmt"
	"os"
	"path/filepath"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(hostTemplate), 0o600)
}

const hostTemplate = `# clicktrans native messaging host

# Namespace files searched under <root>/<lang>/<namespace>.json, in order.
namespaces = ["reviewed", "old"]

log_level = "info"
# log_file = "/tmp/clicktrans-host.log"

# Prometheus textfile with counters from the last session.
# metrics_textfile = "/var/lib/node_exporter/textfile/clicktrans.prom"

max_inbound_bytes = 67108864
max_outbound_bytes = 1048576

backup_suffix = ".backup-"
`
