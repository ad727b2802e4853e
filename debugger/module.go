package debugger

type Module interface {
	Name() string
	Region() (uint64, uint64)
	BaseAddr() uint64
	HasSymbols() bool
}

type ModuleManager interface {
	Modules() []Module
	FindModule(name string) (Module, error)
	FindModuleByAddr(addr uint64) (Module, error)
}
