package proto

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

func descriptorOf(v interface{}) (protoreflect.MessageDescriptor, reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil, rv, fmt.Errorf("expected a non nil message pointer, found %T", v)
	}
	desc, ok := descriptors[rv.Type().Elem()]
	if !ok {
		return nil, rv, fmt.Errorf("unknown message %T", v)
	}
	return desc, rv, nil
}

// newMessage returns an empty protobuf message for a message struct.
func newMessage(v interface{}) (*dynamicpb.Message, error) {
	desc, _, err := descriptorOf(v)
	if err != nil {
		return nil, err
	}
	return dynamicpb.NewMessage(desc), nil
}

// Encode converts a message struct into its protobuf message.
func Encode(v interface{}) (*dynamicpb.Message, error) {
	desc, rv, err := descriptorOf(v)
	if err != nil {
		return nil, err
	}
	return encodeStruct(desc, rv.Elem()), nil
}

func encodeStruct(desc protoreflect.MessageDescriptor, rv reflect.Value) *dynamicpb.Message {
	m := dynamicpb.NewMessage(desc)
	for i := 0; i < rv.NumField(); i++ {
		fd := desc.Fields().ByNumber(protoreflect.FieldNumber(i + 1))
		f := rv.Field(i)

		if fd.IsList() {
			if f.Len() == 0 {
				continue
			}
			list := m.Mutable(fd).List()
			for j := 0; j < f.Len(); j++ {
				elem := f.Index(j)
				if elem.Kind() == reflect.Ptr && elem.IsNil() {
					continue
				}
				list.Append(encodeValue(fd, elem))
			}
			continue
		}
		if f.Kind() == reflect.Ptr && f.IsNil() {
			continue
		}
		m.Set(fd, encodeValue(fd, f))
	}
	return m
}

func encodeValue(fd protoreflect.FieldDescriptor, f reflect.Value) protoreflect.Value {
	switch fd.Kind() {
	case protoreflect.StringKind:
		return protoreflect.ValueOfString(f.String())
	case protoreflect.Uint64Kind:
		return protoreflect.ValueOfUint64(f.Uint())
	case protoreflect.BoolKind:
		return protoreflect.ValueOfBool(f.Bool())
	case protoreflect.BytesKind:
		return protoreflect.ValueOfBytes(f.Bytes())
	case protoreflect.MessageKind:
		return protoreflect.ValueOfMessage(encodeStruct(fd.Message(), f.Elem()))
	default:
		panic(fmt.Sprintf("BUG: unexpected field kind %s", fd.Kind()))
	}
}

// Decode fills a message struct from its protobuf message.
func Decode(m protoreflect.Message, v interface{}) error {
	desc, rv, err := descriptorOf(v)
	if err != nil {
		return err
	}
	if m.Descriptor().FullName() != desc.FullName() {
		return fmt.Errorf("cannot decode %s into %T", m.Descriptor().FullName(), v)
	}
	decodeStruct(m, rv.Elem())
	return nil
}

func decodeStruct(m protoreflect.Message, rv reflect.Value) {
	desc := m.Descriptor()
	for i := 0; i < rv.NumField(); i++ {
		fd := desc.Fields().ByNumber(protoreflect.FieldNumber(i + 1))
		f := rv.Field(i)

		if fd.IsList() {
			list := m.Get(fd).List()
			if list.Len() == 0 {
				continue
			}
			slice := reflect.MakeSlice(f.Type(), list.Len(), list.Len())
			for j := 0; j < list.Len(); j++ {
				decodeValue(fd, list.Get(j), slice.Index(j))
			}
			f.Set(slice)
			continue
		}
		if fd.Kind() == protoreflect.MessageKind && !m.Has(fd) {
			continue
		}
		decodeValue(fd, m.Get(fd), f)
	}
}

func decodeValue(fd protoreflect.FieldDescriptor, val protoreflect.Value, f reflect.Value) {
	switch fd.Kind() {
	case protoreflect.StringKind:
		f.SetString(val.String())
	case protoreflect.Uint64Kind:
		f.SetUint(val.Uint())
	case protoreflect.BoolKind:
		f.SetBool(val.Bool())
	case protoreflect.BytesKind:
		if b := val.Bytes(); len(b) != 0 {
			f.SetBytes(append([]byte{}, b...))
		}
	case protoreflect.MessageKind:
		ptr := reflect.New(f.Type().Elem())
		decodeStruct(val.Message(), ptr.Elem())
		f.Set(ptr)
	}
}
