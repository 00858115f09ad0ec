package wgui

// TextInputController is implemented by event sources that can start and stop
// delivering TextInput events, such as an IME-aware window.
type TextInputController interface {
	StartTextInput()
	StopTextInput()
}

// Context is handed to every leaf during dispatch. It exposes the renderer and
// the scheduler services for the current pass.
type Context struct {
	batch     *Batch
	textures  *TextureArray
	tasks     *Tasks
	textInput TextInputController
	err       error
}

// NewContext creates a dispatch context. Any argument may be nil when the
// corresponding service is not needed, which is convenient in tests.
func NewContext(batch *Batch, textures *TextureArray, tasks *Tasks, text TextInputController) *Context {
	return &Context{batch: batch, textures: textures, tasks: tasks, textInput: text}
}

// Batch returns the instance batch of the frame.
func (ctx *Context) Batch() *Batch { return ctx.batch }

// Textures returns the texture array.
func (ctx *Context) Textures() *TextureArray { return ctx.textures }

// Tasks returns the async task tracker.
func (ctx *Context) Tasks() *Tasks { return ctx.tasks }

// Fail records err and stops dispatch of the current event.
func (ctx *Context) Fail(err error) {
	if err != nil && ctx.err == nil {
		ctx.err = err
	}
}

// Err returns the recorded failure, if any.
func (ctx *Context) Err() error { return ctx.err }

// StartTextInput asks the event source to deliver TextInput events.
func (ctx *Context) StartTextInput() {
	if ctx.textInput != nil {
		ctx.textInput.StartTextInput()
	}
}

// StopTextInput stops TextInput delivery.
func (ctx *Context) StopTextInput() {
	if ctx.textInput != nil {
		ctx.textInput.StopTextInput()
	}
}

func (ctx *Context) reset() { ctx.err = nil }
