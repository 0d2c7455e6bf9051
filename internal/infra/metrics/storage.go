package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(storageOps) }

var storageOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storage_ops_total",
		Help: "Object storage operations, labeled by op and success.",
	},
	[]string{"op", "success"}, // op: 'put', 'get', 'list', 'download', 'ensure_bucket', 'presign'
)

func IncStorageOp(op string, success bool) {
	storageOps.WithLabelValues(norm(op), strconv.FormatBool(success)).Inc()
}
