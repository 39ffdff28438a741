package proto

import (
	"fmt"
	"reflect"
	"strings"

	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	packageName = "proto"
	fileName    = "batch_deposit.proto"
	serviceName = packageName + ".BatchDepositService"
)

// The protobuf schema of the service is derived from the message structs.
// Field numbers follow the declaration order of the struct fields, so new
// fields are only ever appended.
var messages = []interface{}{
	&Receipt{},
	&Deposit{},
	&BatchDepositRequest{},
	&BatchDepositResponse{},
	&TransferRequest{},
	&TransferResponse{},
	&DepositCountRequest{},
	&DepositCountResponse{},
	&DepositListRequest{},
	&DepositListResponse{},
	&BalanceRequest{},
	&BalanceResponse{},
	&FundRequest{},
	&FundResponse{},
	&InfoRequest{},
	&InfoResponse{},
	&ReceiptRequest{},
	&ReceiptResponse{},
}

type rpcMethod struct {
	name string
	in   interface{}
	out  interface{}
}

var methods = []rpcMethod{
	{"BatchDeposit", &BatchDepositRequest{}, &BatchDepositResponse{}},
	{"Transfer", &TransferRequest{}, &TransferResponse{}},
	{"DepositCount", &DepositCountRequest{}, &DepositCountResponse{}},
	{"DepositList", &DepositListRequest{}, &DepositListResponse{}},
	{"Balance", &BalanceRequest{}, &BalanceResponse{}},
	{"Fund", &FundRequest{}, &FundResponse{}},
	{"Info", &InfoRequest{}, &InfoResponse{}},
	{"Receipt", &ReceiptRequest{}, &ReceiptResponse{}},
}

var (
	// File is the protobuf file descriptor of the service
	File protoreflect.FileDescriptor

	descriptors map[reflect.Type]protoreflect.MessageDescriptor
)

func init() {
	file, err := buildFile()
	if err != nil {
		panic(fmt.Sprintf("BUG: failed to build proto descriptor: %v", err))
	}
	File = file

	descriptors = map[reflect.Type]protoreflect.MessageDescriptor{}
	for _, m := range messages {
		typ := reflect.TypeOf(m).Elem()
		desc := file.Messages().ByName(protoreflect.Name(typ.Name()))
		if desc == nil {
			panic(fmt.Sprintf("BUG: message %s not found", typ.Name()))
		}
		descriptors[typ] = desc
	}
}

func str(s string) *string {
	return &s
}

func typeName(typ reflect.Type) *string {
	return str("." + packageName + "." + typ.Name())
}

func buildFile() (protoreflect.FileDescriptor, error) {
	fdp := &descriptorpb.FileDescriptorProto{
		Name:    str(fileName),
		Package: str(packageName),
		Syntax:  str("proto3"),
	}
	for _, m := range messages {
		msg, err := messageProto(reflect.TypeOf(m).Elem())
		if err != nil {
			return nil, err
		}
		fdp.MessageType = append(fdp.MessageType, msg)
	}

	svc := &descriptorpb.ServiceDescriptorProto{
		Name: str(strings.TrimPrefix(serviceName, packageName+".")),
	}
	for _, m := range methods {
		svc.Method = append(svc.Method, &descriptorpb.MethodDescriptorProto{
			Name:       str(m.name),
			InputType:  typeName(reflect.TypeOf(m.in).Elem()),
			OutputType: typeName(reflect.TypeOf(m.out).Elem()),
		})
	}
	fdp.Service = []*descriptorpb.ServiceDescriptorProto{svc}

	return protodesc.NewFile(fdp, nil)
}

func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		name = f.Name
	}
	return name
}

func messageProto(typ reflect.Type) (*descriptorpb.DescriptorProto, error) {
	msg := &descriptorpb.DescriptorProto{
		Name: str(typ.Name()),
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)

		field := &descriptorpb.FieldDescriptorProto{
			Name:   str(fieldName(f)),
			Number: func(n int32) *int32 { return &n }(int32(i + 1)),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		}

		ft := f.Type
		if ft.Kind() == reflect.Slice && ft.Elem().Kind() != reflect.Uint8 {
			field.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
			ft = ft.Elem()
		}

		switch {
		case ft.Kind() == reflect.String:
			field.Type = descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()
		case ft.Kind() == reflect.Uint64:
			field.Type = descriptorpb.FieldDescriptorProto_TYPE_UINT64.Enum()
		case ft.Kind() == reflect.Bool:
			field.Type = descriptorpb.FieldDescriptorProto_TYPE_BOOL.Enum()
		case ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Uint8:
			field.Type = descriptorpb.FieldDescriptorProto_TYPE_BYTES.Enum()
		case ft.Kind() == reflect.Ptr && ft.Elem().Kind() == reflect.Struct:
			field.Type = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
			field.TypeName = typeName(ft.Elem())
		default:
			return nil, fmt.Errorf("%s.%s: unsupported type %s", typ.Name(), f.Name, f.Type)
		}
		msg.Field = append(msg.Field, field)
	}
	return msg, nil
}
