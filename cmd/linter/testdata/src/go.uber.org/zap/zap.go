package zap

type Logger struct{}

func (l *Logger) Fatal(msg string) {}

func (l *Logger) Info(msg string) {}

func (l *Logger) Sugar() *SugaredLogger { return &SugaredLogger{} }

type SugaredLogger struct{}

func (s *SugaredLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

func (s *SugaredLogger) Fatalf(template string, args ...interface{}) {}

func (s *SugaredLogger) Errorf(template string, args ...interface{}) {}

func NewNop() *Logger { return &Logger{} }
