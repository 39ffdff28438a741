package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gproto "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

func TestDescriptor_Service(t *testing.T) {
	svc := File.Services().ByName("BatchDepositService")
	require.NotNil(t, svc)
	assert.Equal(t, protoreflect.FullName(serviceName), svc.FullName())

	require.Equal(t, len(BatchDepositService_ServiceDesc.Methods), svc.Methods().Len())
	for i, m := range BatchDepositService_ServiceDesc.Methods {
		assert.Equal(t, m.MethodName, string(svc.Methods().Get(i).Name()))
	}

	method := svc.Methods().ByName("Receipt")
	require.NotNil(t, method)
	assert.Equal(t, protoreflect.FullName("proto.ReceiptRequest"), method.Input().FullName())
	assert.Equal(t, protoreflect.FullName("proto.ReceiptResponse"), method.Output().FullName())
}

func TestDescriptor_Fields(t *testing.T) {
	req := File.Messages().ByName("BatchDepositRequest")
	require.NotNil(t, req)

	cases := []struct {
		name   string
		number protoreflect.FieldNumber
		kind   protoreflect.Kind
		list   bool
	}{
		{"from", 1, protoreflect.StringKind, false},
		{"withdrawalAddress", 2, protoreflect.StringKind, false},
		{"pubkeys", 3, protoreflect.BytesKind, true},
		{"signatures", 4, protoreflect.BytesKind, true},
		{"depositDataRoots", 5, protoreflect.BytesKind, true},
		{"value", 6, protoreflect.StringKind, false},
		{"gas", 7, protoreflect.Uint64Kind, false},
	}
	require.Equal(t, len(cases), req.Fields().Len())
	for _, c := range cases {
		fd := req.Fields().ByName(protoreflect.Name(c.name))
		require.NotNil(t, fd, c.name)
		assert.Equal(t, c.number, fd.Number(), c.name)
		assert.Equal(t, c.kind, fd.Kind(), c.name)
		assert.Equal(t, c.list, fd.IsList(), c.name)
	}

	list := File.Messages().ByName("DepositListResponse").Fields().ByName("deposits")
	require.NotNil(t, list)
	assert.True(t, list.IsList())
	assert.Equal(t, protoreflect.FullName("proto.Deposit"), list.Message().FullName())
}

func TestEncode_WireRoundTrip(t *testing.T) {
	in := &DepositListResponse{
		Deposits: []*Deposit{
			{Index: 0, Pubkey: []byte{0x1}, Amount: 32000000000, Root: []byte{0xa, 0xb}},
			{Index: 1, Pubkey: []byte{0x2}, Signature: []byte{0x3}},
		},
	}

	msg, err := Encode(in)
	require.NoError(t, err)

	data, err := gproto.Marshal(msg)
	require.NoError(t, err)

	raw := dynamicpb.NewMessage(File.Messages().ByName("DepositListResponse"))
	require.NoError(t, gproto.Unmarshal(data, raw))

	out := new(DepositListResponse)
	require.NoError(t, Decode(raw, out))
	assert.Equal(t, in, out)
}

func TestEncode_NilMessageField(t *testing.T) {
	msg, err := Encode(&BatchDepositResponse{})
	require.NoError(t, err)

	out := &BatchDepositResponse{}
	require.NoError(t, Decode(msg, out))
	assert.Nil(t, out.Receipt)

	msg, err = Encode(&BatchDepositResponse{Receipt: &Receipt{Id: "a", GasUsed: 10, Kind: "EmptyBatch"}})
	require.NoError(t, err)
	require.NoError(t, Decode(msg, out))
	assert.Equal(t, &Receipt{Id: "a", GasUsed: 10, Kind: "EmptyBatch"}, out.Receipt)
}

func TestDecode_Mismatch(t *testing.T) {
	msg, err := Encode(&InfoRequest{})
	require.NoError(t, err)

	require.Error(t, Decode(msg, &BalanceRequest{}))

	_, err = Encode(struct{}{})
	require.Error(t, err)
}
