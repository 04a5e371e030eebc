package appstate

// ValueProvider 是请求处理器读取共享值的唯一入口
type ValueProvider interface {
	GetValue() string
}

// AppSingleton holds the value served by the app route. One instance is built
// at startup and shared by every request; the value is fixed at construction.
type AppSingleton struct {
	value string
}

func NewAppSingleton(value string) *AppSingleton {
	return &AppSingleton{value: value}
}

// GetValue is safe for concurrent use without locking, value is never written after NewAppSingleton.
func (s *AppSingleton) GetValue() string {
	return s.value
}
