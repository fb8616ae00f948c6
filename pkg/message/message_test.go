package message

import "testing"

func TestMessage_String(t *testing.T) {
	t.Parallel()

	m := New(RoleUser, "hello")
	if got := m.String(); got != "user: hello" {
		t.Errorf("String() = %q, want %q", got, "user: hello")
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msgs []Message
		want string
	}{
		{name: "empty", msgs: nil, want: ""},
		{name: "single", msgs: []Message{New(RoleUser, "hi")}, want: "user: hi"},
		{
			name: "ordered",
			msgs: []Message{New(RoleUser, "Hi"), New(RoleAssistant, "Hello")},
			want: "user: Hi\nassistant: Hello",
		},
		{name: "empty content", msgs: []Message{New(RoleUser, "")}, want: "user: "},
		{name: "custom role", msgs: []Message{New("tool", "42")}, want: "tool: 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Render(tt.msgs); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}
