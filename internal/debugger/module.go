package debugger

import (
	"slices"

	"github.com/wnxd/dbgcore/debugger"
)

type moduleManager struct {
	loaded []debugger.Module
}

func (mm *moduleManager) dtor() {
	mm.loaded = nil
}

func (mm *moduleManager) load(module debugger.Module) {
	if !slices.Contains(mm.loaded, module) {
		mm.loaded = append(mm.loaded, module)
	}
}

func (mm *moduleManager) unload(module debugger.Module) {
	mm.loaded = slices.DeleteFunc(mm.loaded, func(m debugger.Module) bool { return m == module })
}

func (mm *moduleManager) Modules() []debugger.Module {
	return slices.Clone(mm.loaded)
}

func (mm *moduleManager) FindModule(name string) (debugger.Module, error) {
	for _, module := range mm.loaded {
		if module.Name() == name {
			return module, nil
		}
	}
	return nil, debugger.ErrModuleNotFound
}

func (mm *moduleManager) FindModuleByAddr(addr uint64) (debugger.Module, error) {
	for _, module := range mm.loaded {
		begin, size := module.Region()
		if addr >= begin && addr < begin+size {
			return module, nil
		}
	}
	return nil, debugger.ErrModuleNotFound
}
