package services

import (
	"context"

	"storefront/internal/api"
)

// Requester, servislerin kullandığı API istemcisi arayüzüdür.
type Requester interface {
	Paths() api.Paths
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// payload, istek gövdesini mağaza API'sinin beklediği {"data": ...} zarfına sarar.
type payload[T any] struct {
	Data T `json:"data"`
}

// reply, değiştiren uç noktaların döndüğü onaydır.
type reply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
