package errutil

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
)

var (
	// IDs
	CategoryKey      = goerr.NewTypedKey[types.Category]("category")
	DisturbanceIDKey = goerr.NewTypedKey[types.DisturbanceID]("disturbance_id")
	PartyIDKey       = goerr.NewTypedKey[string]("party_id")
	FacilityIDKey    = goerr.NewTypedKey[string]("facility_id")
	RequestIDKey     = goerr.NewTypedKey[string]("request_id")

	// Values
	StatusKey     = goerr.NewTypedKey[types.DisturbanceStatus]("status")
	KindKey       = goerr.NewTypedKey[types.NotificationKind]("kind")
	CountKey      = goerr.NewTypedKey[int]("count")
	RepositoryKey = goerr.NewTypedKey[string]("repository")

	// External services
	EndpointKey   = goerr.NewTypedKey[string]("endpoint")
	HTTPStatusKey = goerr.NewTypedKey[int]("http_status")
)
