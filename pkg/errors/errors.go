package errors

import "github.com/flaboy/pin/usererrors"

// 运输集成相关错误
var (
	ErrCredentialNotFound   = usererrors.New("freight.credential_not_found", "Carrier credential not found")
	ErrCredentialIncomplete = usererrors.New("freight.credential_incomplete", "Carrier credential is missing endpoint, API key or account code")
	ErrProviderNotFound     = usererrors.New("freight.provider_not_found", "Carrier provider not found")
	ErrShipmentNotFound     = usererrors.New("freight.shipment_not_found", "Shipment not found")
	ErrShipmentNotDelivered = usererrors.New("freight.shipment_not_delivered", "Proof of delivery is only available once the shipment has been delivered")
	ErrTestShipmentArtifact = usererrors.New("freight.test_shipment_artifact", "Labels and PODs are not available for TEST shipments; they only exist for live consignments")
	ErrCancelUnsupported    = usererrors.New("freight.cancel_unsupported", "Palletways does not provide a cancellation API. Contact your depot directly to cancel this consignment")
	ErrDatabaseNotReady     = usererrors.New("freight.database_not_ready", "Freight database has not been initialised")
)
