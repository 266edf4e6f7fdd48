package events

import "github.com/flaboy/aira-freight/pkg/types"

type EventHandler interface {
	OnShipmentCreated(event *types.ShipmentCreatedEvent) error
	OnShipmentStatusChanged(event *types.ShipmentStatusChangedEvent) error
}

var handler EventHandler

func SetEventHandler(h EventHandler) {
	handler = h
}

func EmitShipmentCreated(event *types.ShipmentCreatedEvent) error {
	if handler != nil {
		return handler.OnShipmentCreated(event)
	}
	return nil
}

func EmitShipmentStatusChanged(event *types.ShipmentStatusChangedEvent) error {
	if handler != nil {
		return handler.OnShipmentStatusChanged(event)
	}
	return nil
}
