package http

import (
	"github.com/vovakirdan/pairchat-server/internal/core"
	"github.com/vovakirdan/pairchat-server/internal/proto"
	"github.com/vovakirdan/pairchat-server/internal/store"
)

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data:  messagePayload(event.RoomID, event.Message),
		}
	case core.EventUserCreated:
		return proto.Outbound{
			Type: proto.OutboundTypeSuccess,
			Data: proto.CreatedUser{UserID: event.UserID},
		}
	case core.EventRoomCreated:
		return proto.Outbound{
			Type: proto.OutboundTypeSuccess,
			Data: proto.CreatedRoom{RoomID: event.RoomID},
		}
	case core.EventMessageSent:
		return proto.Outbound{
			Type: proto.OutboundTypeSuccess,
			Data: proto.SentMessage{MessageID: event.Message.ID},
		}
	case core.EventHistory:
		messages := make([]proto.MessagePayload, 0, len(event.Messages))
		for i := range event.Messages {
			messages = append(messages, messagePayload("", &event.Messages[i]))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameHistory,
			Data:  proto.History{RoomID: event.RoomID, Messages: messages},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func messagePayload(roomID string, msg *store.Message) proto.MessagePayload {
	return proto.MessagePayload{
		MessageID: msg.ID,
		RoomID:    roomID,
		Sender:    msg.Sender,
		Message:   msg.Body,
		Timestamp: msg.Timestamp,
	}
}
