// Package mapreducev1 holds the coordinator/worker task API: the messages,
// their protobuf wire encoding and the gRPC service description.
package mapreducev1

import (
	"google.golang.org/protobuf/encoding/protowire"
)

type State int32

const (
	State_STATE_IDLE_UNSPECIFIED State = 0
	State_STATE_IN_PROGRESS      State = 1
	State_STATE_COMPLETED        State = 2
)

func (s State) String() string {
	switch s {
	case State_STATE_IDLE_UNSPECIFIED:
		return "STATE_IDLE_UNSPECIFIED"
	case State_STATE_IN_PROGRESS:
		return "STATE_IN_PROGRESS"
	case State_STATE_COMPLETED:
		return "STATE_COMPLETED"
	default:
		return "STATE_UNKNOWN"
	}
}

type MapTask struct {
	TaskId    int32  `json:"task_id"`
	InputFile string `json:"input_file"`
	State     State  `json:"state"`
}

type ReduceTask struct {
	TaskId            int32    `json:"task_id"`
	IntermediateFiles []string `json:"intermediate_files"`
	State             State    `json:"state"`
}

type AskForMapTaskRequest struct{}

type AskForMapTaskResponse struct {
	Task *MapTask `json:"task"`
}

type FinishMapTaskRequest struct {
	TaskId                     int32    `json:"task_id"`
	TemporaryIntermediateFiles []string `json:"temporary_intermediate_files"`
}

type FinishMapTaskResponse struct{}

type AskForReduceTaskRequest struct{}

type AskForReduceTaskResponse struct {
	Task *ReduceTask `json:"task"`
}

type FinishReduceTaskRequest struct {
	TaskId int32 `json:"task_id"`
}

type FinishReduceTaskResponse struct{}

func (m *MapTask) Marshal() ([]byte, error) {
	var b []byte
	b = appendInt32(b, 1, m.TaskId)
	b = appendString(b, 2, m.InputFile)
	b = appendInt32(b, 3, int32(m.State))
	return b, nil
}

func (m *MapTask) Unmarshal(b []byte) error {
	*m = MapTask{}
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case num == 1 && typ == protowire.VarintType:
			return consumeInt32(b, &m.TaskId)
		case num == 2 && typ == protowire.BytesType:
			return consumeString(b, &m.InputFile)
		case num == 3 && typ == protowire.VarintType:
			return consumeInt32(b, (*int32)(&m.State))
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
}

func (m *ReduceTask) Marshal() ([]byte, error) {
	var b []byte
	b = appendInt32(b, 1, m.TaskId)
	for _, f := range m.IntermediateFiles {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, f)
	}
	b = appendInt32(b, 3, int32(m.State))
	return b, nil
}

func (m *ReduceTask) Unmarshal(b []byte) error {
	*m = ReduceTask{}
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case num == 1 && typ == protowire.VarintType:
			return consumeInt32(b, &m.TaskId)
		case num == 2 && typ == protowire.BytesType:
			var f string
			n := consumeString(b, &f)
			if n >= 0 {
				m.IntermediateFiles = append(m.IntermediateFiles, f)
			}
			return n
		case num == 3 && typ == protowire.VarintType:
			return consumeInt32(b, (*int32)(&m.State))
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
}

func (m *AskForMapTaskRequest) Marshal() ([]byte, error) { return nil, nil }

func (m *AskForMapTaskRequest) Unmarshal(b []byte) error { return skipAll(b) }

func (m *AskForMapTaskResponse) Marshal() ([]byte, error) {
	if m.Task == nil {
		return nil, nil
	}
	task, err := m.Task.Marshal()
	if err != nil {
		return nil, err
	}
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	return protowire.AppendBytes(b, task), nil
}

func (m *AskForMapTaskResponse) Unmarshal(b []byte) error {
	*m = AskForMapTaskResponse{}
	var err error
	perr := unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			m.Task = &MapTask{}
			err = m.Task.Unmarshal(v)
			return n
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
	if perr != nil {
		return perr
	}
	return err
}

func (m *FinishMapTaskRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendInt32(b, 1, m.TaskId)
	for _, f := range m.TemporaryIntermediateFiles {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, f)
	}
	return b, nil
}

func (m *FinishMapTaskRequest) Unmarshal(b []byte) error {
	*m = FinishMapTaskRequest{}
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case num == 1 && typ == protowire.VarintType:
			return consumeInt32(b, &m.TaskId)
		case num == 2 && typ == protowire.BytesType:
			var f string
			n := consumeString(b, &f)
			if n >= 0 {
				m.TemporaryIntermediateFiles = append(m.TemporaryIntermediateFiles, f)
			}
			return n
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
}

func (m *FinishMapTaskResponse) Marshal() ([]byte, error) { return nil, nil }

func (m *FinishMapTaskResponse) Unmarshal(b []byte) error { return skipAll(b) }

func (m *AskForReduceTaskRequest) Marshal() ([]byte, error) { return nil, nil }

func (m *AskForReduceTaskRequest) Unmarshal(b []byte) error { return skipAll(b) }

func (m *AskForReduceTaskResponse) Marshal() ([]byte, error) {
	if m.Task == nil {
		return nil, nil
	}
	task, err := m.Task.Marshal()
	if err != nil {
		return nil, err
	}
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	return protowire.AppendBytes(b, task), nil
}

func (m *AskForReduceTaskResponse) Unmarshal(b []byte) error {
	*m = AskForReduceTaskResponse{}
	var err error
	perr := unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			m.Task = &ReduceTask{}
			err = m.Task.Unmarshal(v)
			return n
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
	if perr != nil {
		return perr
	}
	return err
}

func (m *FinishReduceTaskRequest) Marshal() ([]byte, error) {
	return appendInt32(nil, 1, m.TaskId), nil
}

func (m *FinishReduceTaskRequest) Unmarshal(b []byte) error {
	*m = FinishReduceTaskRequest{}
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 && typ == protowire.VarintType {
			return consumeInt32(b, &m.TaskId)
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
}

func (m *FinishReduceTaskResponse) Marshal() ([]byte, error) { return nil, nil }

func (m *FinishReduceTaskResponse) Unmarshal(b []byte) error { return skipAll(b) }

// appendInt32 writes a proto3 int32 field, omitting the zero value.
func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func consumeInt32(b []byte, dst *int32) int {
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = int32(v)
	}
	return n
}

func consumeString(b []byte, dst *string) int {
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

// unmarshalFields walks the fields of b. fn consumes the value of one field
// and returns its length, or a negative protowire error code.
func unmarshalFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n = fn(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func skipAll(b []byte) error {
	return unmarshalFields(b, protowire.ConsumeFieldValue)
}
