package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsCreated   = counter("rooms_created_total", "Temp voice rooms created.")
	MembersJoined  = counter("members_joined_total", "Members who joined a temp room.")
	MembersLeft    = counter("members_left_total", "Members who left a temp room.")
	Kicks          = counter("kicks_total", "Members kicked from temp rooms.")
	Bans           = counter("bans_total", "Members banned from temp rooms.")
	Unbans         = counter("unbans_total", "Members unbanned from temp rooms.")
	OwnerTransfers = counter("owner_transfers_total", "Temp room ownership transfers.")
	AccessGrants   = counter("access_grants_total", "Explicit access grants on temp rooms.")
	AccessRevokes  = counter("access_revokes_total", "Explicit access revokes on temp rooms.")
	PrivacyChanges = counter("privacy_changes_total", "Temp room privacy changes.")
	AdvsSent       = counter("advs_sent_total", "Advertisements posted.")
)

func counter(name, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "partysys",
		Name:      name,
		Help:      help,
	}, []string{"guild"})
}
