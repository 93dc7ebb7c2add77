package inbox

import "net/url"

// Navigator is the shareable navigation state behind deep links: the active
// tab and the selected thread. The controller reads it once on init and
// pushes on every transition; state only ever flows into the URL.
type Navigator interface {
	Read() (tab string, thread string)
	Push(tab string, thread string)
}

// URLNavigator keeps navigation state in URL query values, the shape the web
// frontend shares links in (/messages?tab=property&thread=...).
type URLNavigator struct {
	values url.Values
}

func NewURLNavigator(values url.Values) *URLNavigator {
	if values == nil {
		values = url.Values{}
	}
	return &URLNavigator{values: values}
}

func (n *URLNavigator) Read() (string, string) {
	return n.values.Get("tab"), n.values.Get("thread")
}

func (n *URLNavigator) Push(tab string, thread string) {
	n.values.Set("tab", tab)
	if thread == "" {
		n.values.Del("thread")
	} else {
		n.values.Set("thread", thread)
	}
}

func (n *URLNavigator) Encode() string {
	return n.values.Encode()
}
