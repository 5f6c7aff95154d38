package system_info

type Module struct {
	Service    *SystemInfoService
	Controller *SystemInfoController
}

func NewModule(diskPath string) *Module {
	service := NewSystemInfoService(diskPath)

	return &Module{
		Service:    service,
		Controller: NewSystemInfoController(service),
	}
}
