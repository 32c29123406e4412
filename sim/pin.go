package sim

// Pin is a digital output that remembers its level.
type Pin struct {
	Level  bool
	Writes []bool
}

func (p *Pin) Set(level bool) {
	p.Level = level
	p.Writes = append(p.Writes, level)
}

func (p *Pin) Get() bool {
	return p.Level
}

// Log collects diagnostic lines.
type Log struct {
	Lines []string
}

func (l *Log) Println(msg string) error {
	l.Lines = append(l.Lines, msg)
	return nil
}
