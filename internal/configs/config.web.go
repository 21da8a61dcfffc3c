package configs

type Web struct {
	Enabled    bool   `yaml:"Enabled"`    // Serve the live conversation event stream
	ListenAddr string `yaml:"ListenAddr"` // host:port for the event websocket
}

func (w *Web) Validate() {

	if w.ListenAddr == `` {
		w.ListenAddr = `localhost:8089`
	}
}
