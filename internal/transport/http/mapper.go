package http

import (
	"encoding/json"

	"github.com/staffhub/staffhub-server/internal/auth"
	"github.com/staffhub/staffhub-server/internal/core"
	"github.com/staffhub/staffhub-server/internal/proto"
)

// inboundToCommand maps a client frame to a core command. Bad frames
// (unknown type, malformed payload, identity mismatch) produce an
// error to echo back; they never terminate the connection.
func inboundToCommand(claims *auth.Claims, inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed join payload"}
		}
		// The join payload must match the identity the connection was
		// opened with; a client cannot claim another user or role.
		if join.UserID != claims.UserID || join.Role != claims.Role {
			return nil, &proto.Error{Code: core.ErrCodeIdentityMismatch, Msg: "join payload does not match session identity"}
		}
		return &core.Command{
			Kind: core.CommandJoin,
			Identity: core.Identity{
				UserID:    join.UserID,
				FirstName: join.FirstName,
				LastName:  join.LastName,
				Role:      join.Role,
			},
		}, nil
	case proto.InboundTypeMessage:
		var msg proto.MessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed message payload"}
		}
		return &core.Command{
			Kind:    core.CommandPostMessage,
			Content: msg.Content,
		}, nil
	case proto.InboundTypeTyping:
		var isTyping bool
		if err := json.Unmarshal(inbound.Data, &isTyping); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed typing payload"}
		}
		return &core.Command{
			Kind:     core.CommandSetTyping,
			IsTyping: isTyping,
		}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventHistory:
		messages := make([]proto.Message, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messageToProto(msg))
		}
		return proto.Outbound{Event: proto.EventChatHistory, Data: messages}
	case core.EventNewMessage:
		return proto.Outbound{Event: proto.EventNewMessage, Data: messageToProto(event.Message)}
	case core.EventUsersOnline:
		users := make([]proto.User, 0, len(event.Users))
		for _, u := range event.Users {
			users = append(users, identityToProto(u))
		}
		return proto.Outbound{Event: proto.EventUsersOnline, Data: users}
	case core.EventUserTyping:
		var data proto.TypingEvent
		if event.Typing != nil {
			data = proto.TypingEvent{
				User:     identityToProto(event.Typing.User),
				IsTyping: event.Typing.IsTyping,
			}
		}
		return proto.Outbound{Event: proto.EventUserTyping, Data: data}
	case core.EventDataUpdated:
		return proto.Outbound{Event: proto.EventDataUpdated, Data: proto.DataUpdated{Type: string(event.Topic)}}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Event: proto.EventError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{Event: proto.EventError, Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message}}
	default:
		return proto.Outbound{Event: proto.EventError, Error: &proto.Error{Code: "unknown", Msg: "unmapped event"}}
	}
}

func messageToProto(msg core.ChatMessage) proto.Message {
	return proto.Message{
		ID:        msg.ID,
		UserID:    msg.UserID,
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: msg.Timestamp.UnixMilli(),
	}
}

func identityToProto(identity core.Identity) proto.User {
	return proto.User{
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Role:      identity.Role,
	}
}
