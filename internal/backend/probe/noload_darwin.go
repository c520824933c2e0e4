package probe

const rtldNoLoad = 0x10
