package probe

const rtldNoLoad = 0x2000
