package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dokzlo13/tuyactl/internal/device"
	"github.com/dokzlo13/tuyactl/internal/dps"
)

type Session struct {
	mock.Mock
}

func (_m *Session) Status(ctx context.Context) (device.Status, error) {
	ret := _m.Called(ctx)

	var r0 device.Status
	if rf, ok := ret.Get(0).(func(context.Context) device.Status); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(device.Status)
	}

	return r0, ret.Error(1)
}

func (_m *Session) Set(ctx context.Context, set dps.Set) error {
	ret := _m.Called(ctx, set)
	return ret.Error(0)
}

func (_m *Session) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

type Dialer struct {
	mock.Mock
}

func (_m *Dialer) Dial(ctx context.Context, target device.Target) (device.Session, error) {
	ret := _m.Called(ctx, target)

	var r0 device.Session
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(device.Session)
	}

	return r0, ret.Error(1)
}
