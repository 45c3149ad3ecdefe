// pkg/ant/payment.go
package ant

import (
	"github.com/busybox42/Myrmex/pkg/types"
)

// Payment holds the parameters of one route-discovery request, installed
// on an endpoint by InitiateSearch. The seed is immutable for the
// lifetime of the search.
type Payment struct {
	Seed        types.Seed
	Amount      types.Amount
	Role        types.Role   // which endpoint this record sits on
	Counterpart types.NodeID // the other endpoint
	FeeBudget   int64        // combined fee tolerance of both endpoints
	HopBudget   int          // initial hop counter handed to the flood
}

type paymentKey struct {
	seed types.Seed
	role types.Role
}
